package whatsapp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

var ErrNotConfigured = errors.New("twilio not configured")

type messageCreator interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

type TwilioConfig struct {
	AccountSID  string
	AuthToken   string
	FromNumber  string
	TemplateSID map[Kind]string
}

// TwilioSender sends through the Twilio Messages API, using a content
// template when one is configured for the message kind.
type TwilioSender struct {
	api       messageCreator
	from      string
	templates map[Kind]string
	log       *logrus.Logger
}

func NewTwilioSender(cfg TwilioConfig, log *logrus.Logger) (*TwilioSender, error) {
	if cfg.AccountSID == "" || cfg.AuthToken == "" {
		return nil, ErrNotConfigured
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return newTwilioSender(client.Api, cfg, log), nil
}

func newTwilioSender(api messageCreator, cfg TwilioConfig, log *logrus.Logger) *TwilioSender {
	from := cfg.FromNumber
	if !strings.HasPrefix(from, channelPrefix) {
		from = channelPrefix + from
	}
	return &TwilioSender{api: api, from: from, templates: cfg.TemplateSID, log: log}
}

func (s *TwilioSender) Send(ctx context.Context, phone string, msg Message) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	params := &openapi.CreateMessageParams{}
	params.SetTo(FormatPhone(phone))
	params.SetFrom(s.from)

	if sid := s.templates[msg.Kind]; sid != "" {
		params.SetContentSid(sid)
		if len(msg.Vars) > 0 {
			vars, err := json.Marshal(msg.Vars)
			if err != nil {
				return Result{}, err
			}
			params.SetContentVariables(string(vars))
		}
	} else {
		params.SetBody(msg.Body)
	}

	resp, err := s.api.CreateMessage(params)
	if err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{"phone": phone, "kind": msg.Kind}).Error("twilio send failed")
		return Result{}, fmt.Errorf("send %s message: %w", msg.Kind, err)
	}
	res := Result{}
	if resp != nil && resp.Sid != nil {
		res.MessageID = *resp.Sid
	}
	s.log.WithFields(logrus.Fields{"phone": phone, "kind": msg.Kind, "sid": res.MessageID}).Info("whatsapp message sent")
	return res, nil
}
