package templates

import (
	messagingTypes "github.com/taskdeck/taskdeck-backend/pkg/messaging/types"
)

// Built-in templates used when no template override is configured.
// Template defs are plain strings here, not base64 encoded.
var defaultVerificationCodeTemplate = messagingTypes.EmailTemplate{
	MessageType:     messagingTypes.EMAIL_TYPE_AUTH_VERIFICATION_CODE,
	DefaultLanguage: "en",
	Translations: []messagingTypes.LocalizedTemplate{
		{
			Lang:    "en",
			Subject: "Your verification code",
			TemplateDef: `<html><body>
<p>Hi,</p>
<p>Use the following code to finish signing in:</p>
<h2>{{.verificationCode}}</h2>
<p>The code is valid for {{.validityPeriod}} minutes. If you did not try to sign in, you can ignore this email.</p>
</body></html>`,
		},
	},
}

func init() {
	// a built-in template that does not parse is a programming error
	if err := CheckAllTranslationsParsable(
		defaultVerificationCodeTemplate.Translations,
		defaultVerificationCodeTemplate.MessageType,
	); err != nil {
		panic(err)
	}
}

func GetDefaultVerificationCodeEmail(lang string, contentInfos map[string]string) (subject string, content string, err error) {
	translation := GetTemplateTranslation(
		defaultVerificationCodeTemplate.Translations,
		lang,
		defaultVerificationCodeTemplate.DefaultLanguage,
	)

	content, err = ResolveTemplate(
		defaultVerificationCodeTemplate.MessageType+translation.Lang,
		translation.TemplateDef,
		contentInfos,
	)
	return translation.Subject, content, err
}
