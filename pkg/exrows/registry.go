package exrows

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ukaji3/exrows-go/pkg/exrows/codec"
	"github.com/ukaji3/exrows-go/pkg/exrows/csvfile"
	"github.com/ukaji3/exrows-go/pkg/exrows/xls"
	"github.com/ukaji3/exrows-go/pkg/exrows/xlsx"
)

var codecs = map[string]codec.Codec{
	".csv": csvfile.Codec{},
	".xls": xls.Codec{},
}

func init() {
	for _, ext := range xlsx.Extensions {
		codecs[ext] = xlsx.Codec{}
	}
}

// CodecFor picks a codec by the path's file extension.
func CodecFor(path string) (codec.Codec, error) {
	ext := strings.ToLower(filepath.Ext(path))
	c, ok := codecs[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return c, nil
}
