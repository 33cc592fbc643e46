package resolve

import (
	tok "github.com/fy-yaml/fy/internal/token"
)

var DefaultTagDirectives = []tok.TagDirective{
	{Handle: []byte("!"), Prefix: []byte("!")},
	{Handle: []byte("!!"), Prefix: []byte("tag:yaml.org,2002:")},
}
