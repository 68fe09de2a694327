package emailsending

import (
	"errors"
	"fmt"
	"time"

	httpclient "github.com/taskdeck/taskdeck-backend/pkg/http-client"
	"github.com/taskdeck/taskdeck-backend/pkg/messaging/templates"
	messagingTypes "github.com/taskdeck/taskdeck-backend/pkg/messaging/types"
)

var ErrMailerNotConfigured = errors.New("connection to smtp bridge not initialized")

var (
	HttpClient *httpclient.ClientConfig

	GlobalTemplateInfos = map[string]string{}
)

func InitMessageSendingVariables(
	newClientConfig *httpclient.ClientConfig,
	globalTemplateInfos map[string]string,
) {
	HttpClient = newClientConfig
	GlobalTemplateInfos = globalTemplateInfos
}

type SendEmailReq struct {
	To              []string                        `json:"to"`
	Subject         string                          `json:"subject"`
	Content         string                          `json:"content"`
	HighPrio        bool                            `json:"highPrio"`
	HeaderOverrides *messagingTypes.HeaderOverrides `json:"headerOverrides"`
}

func SendOutgoingEmail(
	outgoing *messagingTypes.OutgoingEmail,
) error {
	if HttpClient == nil || HttpClient.RootURL == "" {
		return ErrMailerNotConfigured
	}

	sendEmailReq := SendEmailReq{
		To:              outgoing.To,
		Subject:         outgoing.Subject,
		Content:         outgoing.Content,
		HighPrio:        outgoing.HighPrio,
		HeaderOverrides: outgoing.HeaderOverrides,
	}
	resp, err := HttpClient.RunHTTPcall("/send-email", sendEmailReq)
	if err == nil && resp != nil {
		errMsg, hasError := resp["error"]
		if hasError {
			err = errors.New(errMsg.(string))
		}
	}
	return err
}

// SendVerificationCode delivers a sign-in code to the given address.
// Codes expire, so these mails always go out with high priority.
func SendVerificationCode(
	email string,
	code string,
	preferredLang string,
	expiresAt int64,
) error {
	if HttpClient == nil || HttpClient.RootURL == "" {
		return ErrMailerNotConfigured
	}

	validityPeriod := (expiresAt - time.Now().UnixMilli()) / time.Minute.Milliseconds()
	if validityPeriod < 1 {
		validityPeriod = 1
	}

	contentInfos := map[string]string{
		"verificationCode": code,
		"validityPeriod":   fmt.Sprintf("%d", validityPeriod),
	}
	for k, v := range GlobalTemplateInfos {
		contentInfos[k] = v
	}

	subject, content, err := templates.GetDefaultVerificationCodeEmail(preferredLang, contentInfos)
	if err != nil {
		return err
	}

	outgoingEmail := messagingTypes.OutgoingEmail{
		MessageType: messagingTypes.EMAIL_TYPE_AUTH_VERIFICATION_CODE,
		To:          []string{email},
		Subject:     subject,
		Content:     content,
		HighPrio:    true,
	}
	return SendOutgoingEmail(&outgoingEmail)
}
