// services/gateway.go
package services

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	lookups "github.com/twilio/twilio-go/rest/lookups/v2"
)

// gatewayTimeout bounds every outbound provider call so a hung gateway can
// never stall a scheduler pass.
const gatewayTimeout = 15 * time.Second

// ErrGatewayNotConfigured is returned by every delivery attempt while the
// provider credentials are missing. The process keeps running; deliveries
// start succeeding as soon as the credentials appear on a restart.
var ErrGatewayNotConfigured = errors.New("twilio credentials are not configured")

// MessageGateway sends one message to one address. Failures are reported as
// errors with a human-readable reason, never as panics.
type MessageGateway interface {
	// Send delivers body to the address and returns the provider message SID.
	Send(to, body string) (string, error)
	// Probe verifies an address is deliverable before it is accepted into a
	// notification setting.
	Probe(to string) error
}

// ChannelFor picks the delivery channel for an address: WhatsApp for E.164
// numbers when a WhatsApp sender is configured, SMS otherwise.
func ChannelFor(address string) string {
	if strings.HasPrefix(address, "+") && os.Getenv("TWILIO_WHATSAPP_NUMBER") != "" {
		return "whatsapp"
	}
	return "sms"
}

type TwilioGateway struct {
	client       *twilio.RestClient
	from         string
	whatsappFrom string
	configured   bool
}

func NewTwilioGateway() *TwilioGateway {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	g := &TwilioGateway{
		from:         os.Getenv("TWILIO_PHONE_NUMBER"),
		whatsappFrom: os.Getenv("TWILIO_WHATSAPP_NUMBER"),
		configured:   accountSid != "" && authToken != "",
	}

	if g.configured {
		g.client = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		})
		g.client.SetTimeout(gatewayTimeout)
	}

	return g
}

func (g *TwilioGateway) Send(to, body string) (string, error) {
	if !g.configured {
		return "", ErrGatewayNotConfigured
	}

	dest := to
	from := g.from
	if ChannelFor(to) == "whatsapp" {
		dest = "whatsapp:" + to
		from = "whatsapp:" + g.whatsappFrom
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(dest)
	params.SetFrom(from)
	params.SetBody(body)

	resp, err := g.client.Api.CreateMessage(params)
	if err != nil {
		return "", fmt.Errorf("message rejected: %v", err)
	}
	if resp.Sid == nil {
		return "", errors.New("provider accepted the message but returned no SID")
	}
	return *resp.Sid, nil
}

func (g *TwilioGateway) Probe(to string) error {
	if !g.configured {
		return ErrGatewayNotConfigured
	}

	resp, err := g.client.LookupsV2.FetchPhoneNumber(to, &lookups.FetchPhoneNumberParams{})
	if err != nil {
		return fmt.Errorf("number lookup failed: %v", err)
	}
	if resp.Valid != nil && !*resp.Valid {
		return fmt.Errorf("%s is not a deliverable phone number", to)
	}
	return nil
}
