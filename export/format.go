package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/voodooattack/serialism/errors"
	"gopkg.in/yaml.v3"
)

// Format names an output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCBOR Format = "cbor"
)

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	switch f := Format(name); f {
	case FormatJSON, FormatYAML, FormatCBOR:
		return f, nil
	}
	return "", fmt.Errorf("unknown export format: %q", name)
}

var cborMode cbor.EncMode

func init() {
	var err error
	cborMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("export: CBOR encoder initialization failed: " + err.Error())
	}
}

// Write converts v with ToTree and encodes it to w.
func Write(w io.Writer, f Format, v any) error {
	tree, err := ToTree(v)
	if err != nil {
		return err
	}

	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(tree)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		err = enc.Encode(tree)
		if err == nil {
			err = enc.Close()
		}
	case FormatCBOR:
		err = cborMode.NewEncoder(w).Encode(tree)
	default:
		return errors.InvalidData(errors.PhaseExport, nil, fmt.Sprintf("unknown format %q", f))
	}

	if err != nil {
		return errors.Wrap(errors.PhaseExport, errors.KindInvalidData, err, "encode "+string(f))
	}
	return nil
}
