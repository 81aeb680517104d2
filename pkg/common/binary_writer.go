package common

import (
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/hokaccha/go-prettyjson"
	"github.com/vmihailenco/msgpack/v5"
)

// cborMode uses Core Deterministic Encoding so the same tree always
// produces the same bytes.
var cborMode cbor.EncMode

func init() {
	var err error
	cborMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("common: CBOR encoder initialization failed: " + err.Error())
	}
}

func PrintTreeCBOR(root *Node, indentDelta string, output io.Writer, options *PrintOptions) error {
	return cborMode.NewEncoder(output).Encode(root.ToMap(options.IncludeSpans))
}

func PrintTreeMsgpack(root *Node, indentDelta string, output io.Writer, options *PrintOptions) error {
	encoder := msgpack.NewEncoder(output)
	encoder.SetSortMapKeys(true)
	return encoder.Encode(root.ToMap(options.IncludeSpans))
}

// PrintTreePretty writes colorized, indented JSON for terminals.
func PrintTreePretty(root *Node, indentDelta string, output io.Writer, options *PrintOptions) error {
	if !options.IncludeSpans {
		root = root.WithoutSpans()
	}
	data, err := root.MarshalJSON()
	if err != nil {
		return err
	}
	formatter := prettyjson.NewFormatter()
	if options.Indent > 0 {
		formatter.Indent = options.Indent
	}
	pretty, err := formatter.Format(data)
	if err != nil {
		return err
	}
	_, err = output.Write(append(pretty, '\n'))
	return err
}
