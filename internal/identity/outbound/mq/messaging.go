package mq

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/shandysiswandi/notekeep/internal/identity/usecase"
	"github.com/shandysiswandi/notekeep/internal/pkg/instrument"
	"github.com/shandysiswandi/notekeep/internal/pkg/messaging"
	"github.com/shandysiswandi/notekeep/internal/shared/event"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const keyOfCorrelationID string = "cID"

type Messaging struct {
	client messaging.Publisher
	ins    instrument.Instrumentation
}

func NewMessaging(client messaging.Publisher, ins instrument.Instrumentation) *Messaging {
	return &Messaging{client: client, ins: ins}
}

// PublishIdentityVerified emits the verification event keyed by user id, so
// ordered transports keep one identity's events in sequence.
func (m *Messaging) PublishIdentityVerified(ctx context.Context, msg usecase.IdentityVerifiedEvent) error {
	ctx, span := m.ins.Tracer("identity.outbound.mq").Start(ctx, "PublishIdentityVerified")
	defer span.End()

	body, err := json.Marshal(event.IdentityVerifiedMessage{
		UserID:     msg.UserID,
		Email:      msg.Email,
		Name:       msg.Name,
		Mode:       msg.Mode.String(),
		VerifiedAt: msg.VerifiedAt,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	cID := instrument.GetCorrelationID(ctx)
	res, err := m.client.Publish(ctx, event.IdentityVerifiedDestination, messaging.OutgoingMessage{
		Body:    body,
		Key:     []byte(strconv.FormatInt(msg.UserID, 10)),
		Headers: []messaging.Header{{Key: keyOfCorrelationID, Value: []byte(cID)}},
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetAttributes(attribute.String("messaging.message_id", res.MessageID))

	return nil
}
