package protoreg

import (
	"github.com/hanpama/schemagraph/internal/ir"
	"github.com/jhump/protoreflect/v2/protobuilder"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// addService turns a root operation type into a service. Subscription fields
// become server-streaming methods.
func (b *builder) addService(op string, root *ir.Field) {
	serviceBuilder := protobuilder.NewService(nameService(root.Name))
	serviceBuilder.SetComments(comment(root))
	stream := op == "subscription"

	for _, field := range root.Args {
		requestMB := b.createMethodRequest(nameResolverRequest(root.Name, field.Name), root.Name, field)
		responseMB := b.createMethodResponse(nameResolverResponse(root.Name, field.Name), root.Name, field)
		if requestMB == nil || responseMB == nil {
			continue
		}
		methodName := nameResolverMethod(root.Name, field.Name)
		methodBuilder := protobuilder.NewMethod(
			methodName,
			protobuilder.RpcTypeMessage(requestMB, false),
			protobuilder.RpcTypeMessage(responseMB, stream),
		)
		methodBuilder.SetComments(comment(field))
		if err := b.addMethod(serviceBuilder, methodBuilder, requestMB, responseMB); err != nil {
			b.fail("%s.%s: %w", root.Name, field.Name, err)
			continue
		}

		b.methods[[2]protoreflect.Name{serviceBuilder.Name(), methodName}] = [2]string{root.Name, field.Name}
	}
	if err := b.file.TryAddService(serviceBuilder); err != nil {
		b.fail("%s: %w", root.Name, err)
	}
}

func (b *builder) addMethod(sb *protobuilder.ServiceBuilder, mtb *protobuilder.MethodBuilder, request, response *protobuilder.MessageBuilder) error {
	if err := b.file.TryAddMessage(request); err != nil {
		return err
	}
	if err := b.file.TryAddMessage(response); err != nil {
		return err
	}
	return sb.TryAddMethod(mtb)
}

func (b *builder) createMethodRequest(requestName protoreflect.Name, owner string, field *ir.Field) *protobuilder.MessageBuilder {
	requestMB := protobuilder.NewMessage(requestName)
	requestFields := make([]*protobuilder.FieldBuilder, 0, len(field.Args))
	for _, arg := range field.Args {
		fb, ok := b.newField(nameProtoField(arg.Name), arg.Type)
		if !ok {
			b.fail("%s.%s(%s): cannot map type %s", owner, field.Name, arg.Name, arg.Type)
			return nil
		}
		fb.SetComments(comment(arg))
		if err := requestMB.TryAddField(fb); err != nil {
			b.fail("%s.%s(%s): %w", owner, field.Name, arg.Name, err)
			return nil
		}
		requestFields = append(requestFields, fb)
	}
	if err := allocateFieldNumbers(requestFields); err != nil {
		b.fail("%s.%s: %w", owner, field.Name, err)
		return nil
	}
	return requestMB
}

func (b *builder) createMethodResponse(responseName protoreflect.Name, owner string, field *ir.Field) *protobuilder.MessageBuilder {
	responseMB := protobuilder.NewMessage(responseName)
	fb, ok := b.newField(nameProtoField("data"), field.Type)
	if !ok {
		b.fail("%s.%s: cannot map type %s", owner, field.Name, field.Type)
		return nil
	}
	fb.SetNumber(protoreflect.FieldNumber(1))
	if err := responseMB.TryAddField(fb); err != nil {
		b.fail("%s.%s: %w", owner, field.Name, err)
		return nil
	}
	return responseMB
}
