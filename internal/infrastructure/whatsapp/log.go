package whatsapp

import (
	"context"

	"github.com/sirupsen/logrus"

	"lendbox/pkg/id"
)

// LogSender writes messages to the log instead of delivering them.
type LogSender struct{ log *logrus.Logger }

func NewLogSender(log *logrus.Logger) *LogSender { return &LogSender{log: log} }

func (s *LogSender) Send(_ context.Context, phone string, msg Message) (Result, error) {
	res := Result{MessageID: "log-" + id.NewID32()}
	s.log.WithFields(logrus.Fields{
		"phone": FormatPhone(phone),
		"kind":  msg.Kind,
		"sid":   res.MessageID,
	}).Info(msg.Body)
	return res, nil
}
