package services

import (
	"log"
	"os"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Transport delivers a rendered invoice or reminder to a customer's
// phone number. The send workflow only cares about success or failure;
// errors come back verbatim.
type Transport interface {
	Send(to, body string) error
}

type TwilioTransport struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioTransport() *TwilioTransport {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &TwilioTransport{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
		from: os.Getenv("TWILIO_PHONE_NUMBER"),
	}
}

func (t *TwilioTransport) Send(to, body string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetBody(body)
	params.SetFrom(t.from)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return err
	}
	if resp.Sid != nil {
		log.Printf("Message sent to %s, SID: %s", to, *resp.Sid)
	} else {
		log.Printf("Message sent to %s, but no SID returned", to)
	}
	return nil
}
