package protoreg

import (
	"io"

	"github.com/jhump/protoreflect/v2/protoprint"
)

// Render writes the proto source of the registry's file to w.
func Render(r *Registry, w io.Writer) error {
	pp := protoprint.Printer{}
	return pp.PrintProtoFile(r.file, w)
}
