package scanner

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseFilename(t *testing.T) {
	cases := []struct {
		name string
		want ParsedFilename
	}{
		{"IMG_1234.JPG", ParsedFilename{Full: "IMG_1234.JPG", Base: "IMG_1234", Extension: "jpg"}},
		{"archive.tar.gz", ParsedFilename{Full: "archive.tar.gz", Base: "archive.tar", Extension: "gz"}},
		{"noext", ParsedFilename{Full: "noext", Base: "noext", Extension: ""}},
		{".hidden", ParsedFilename{Full: ".hidden", Base: ".hidden", Extension: ""}},
		{"trailing.", ParsedFilename{Full: "trailing.", Base: "trailing", Extension: ""}},
	}

	for _, c := range cases {
		got := ParseFilename(c.name)
		require.Equal(t, c.want, got, "ParseFilename(%q)", c.name)
	}
}
