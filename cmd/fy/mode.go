package main

import (
	"fmt"

	fy "github.com/fy-yaml/fy"
)

func parseMode(s string) (fy.Mode, error) {
	switch s {
	case "", "block":
		return fy.ModeBlock, nil
	case "flow":
		return fy.ModeFlow, nil
	case "flow-oneline":
		return fy.ModeFlowOneline, nil
	case "json":
		return fy.ModeJSON, nil
	case "json-oneline":
		return fy.ModeJSONOneline, nil
	case "json-tp":
		return fy.ModeJSONTP, nil
	case "original":
		return fy.ModeOriginal, nil
	default:
		return 0, fmt.Errorf("unknown mode %q", s)
	}
}

func encodeOptions(f *rootFlags) (fy.EncodeOptions, error) {
	mode, err := parseMode(f.mode)
	if err != nil {
		return fy.EncodeOptions{}, err
	}
	return fy.EncodeOptions{
		Mode:             mode,
		SortKeys:         f.sortKeys,
		StripEmptyKV:     f.stripEmptyKV,
		Comments:         f.comments,
		Width:            f.width,
		Indent:           f.indent,
		IndentedSeqInMap: f.indentedSeqInMap,
	}, nil
}
