package kafka

import (
	"time"

	"github.com/DRSN-tech/basket-backend/internal/usecase"
	"github.com/DRSN-tech/basket-backend/pkg/e"
	"github.com/jimlawless/whereami"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// ProtoEncoder кодирует доменное событие в protobuf google.protobuf.Struct:
//
//	{event_id, event_type, aggregate_id, occurred_at, data}
type ProtoEncoder struct{}

func NewProtoEncoder() *ProtoEncoder {
	return &ProtoEncoder{}
}

func (ProtoEncoder) Encode(event *usecase.DomainEvent) ([]byte, error) {
	data, err := structpb.NewStruct(event.Data)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	msg := &structpb.Struct{Fields: map[string]*structpb.Value{
		"event_id":     structpb.NewStringValue(event.EventID),
		"event_type":   structpb.NewStringValue(string(event.Type)),
		"aggregate_id": structpb.NewStringValue(event.AggregateID),
		"occurred_at":  structpb.NewStringValue(event.OccurredAt.UTC().Format(time.RFC3339Nano)),
		"data":         structpb.NewStructValue(data),
	}}

	payload, err := proto.Marshal(msg)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return payload, nil
}

// DecodeEvent разбирает payload, записанный ProtoEncoder.
func DecodeEvent(payload []byte) (*structpb.Struct, error) {
	var msg structpb.Struct
	if err := proto.Unmarshal(payload, &msg); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	return &msg, nil
}
