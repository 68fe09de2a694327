package templates

import (
	"strings"
	"testing"

	messagingTypes "github.com/taskdeck/taskdeck-backend/pkg/messaging/types"
)

func TestTemplateLanguageSelection(t *testing.T) {
	testTemplate := messagingTypes.EmailTemplate{
		MessageType:     "test-type",
		DefaultLanguage: "en",
		Translations: []messagingTypes.LocalizedTemplate{
			{Lang: "en", Subject: "EN"},
			{Lang: "de", Subject: "DE"},
		},
	}

	t.Run("missing target language", func(t *testing.T) {
		translation := GetTemplateTranslation(testTemplate.Translations, "fr", testTemplate.DefaultLanguage)
		if translation.Subject != "EN" {
			t.Errorf("unexpected translation found: %v", translation)
		}
	})

	t.Run("existing target language", func(t *testing.T) {
		translation := GetTemplateTranslation(testTemplate.Translations, "de", testTemplate.DefaultLanguage)
		if translation.Subject != "DE" {
			t.Errorf("unexpected translation found: %v", translation)
		}
	})
}

func TestCheckAllTranslationsParsable(t *testing.T) {
	t.Run("empty translation list", func(t *testing.T) {
		err := CheckAllTranslationsParsable(nil, "test-type")
		if err == nil {
			t.Error("should return an error")
		}
	})

	t.Run("broken template def", func(t *testing.T) {
		translations := []messagingTypes.LocalizedTemplate{
			{Lang: "en", TemplateDef: "{{.code"},
		}
		err := CheckAllTranslationsParsable(translations, "test-type")
		if err == nil {
			t.Error("should return an error")
		}
	})

	t.Run("plain string defs pass", func(t *testing.T) {
		translations := []messagingTypes.LocalizedTemplate{
			{Lang: "en", TemplateDef: "<p>{{.code}}</p>"},
			{Lang: "de", TemplateDef: "<p>{{.code}}</p>"},
		}
		err := CheckAllTranslationsParsable(translations, "test-type")
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("built-in templates pass", func(t *testing.T) {
		err := CheckAllTranslationsParsable(
			defaultVerificationCodeTemplate.Translations,
			defaultVerificationCodeTemplate.MessageType,
		)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestDefaultVerificationCodeEmail(t *testing.T) {
	t.Run("resolves code into content", func(t *testing.T) {
		subject, content, err := GetDefaultVerificationCodeEmail("en", map[string]string{
			"verificationCode": "123456",
			"validityPeriod":   "15",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if subject == "" {
			t.Error("subject should not be empty")
		}
		if !strings.Contains(content, "123456") {
			t.Errorf("content should contain the code: %s", content)
		}
		if !strings.Contains(content, "15 minutes") {
			t.Errorf("content should contain the validity period: %s", content)
		}
	})

	t.Run("unknown language falls back to default", func(t *testing.T) {
		_, content, err := GetDefaultVerificationCodeEmail("nl", map[string]string{
			"verificationCode": "654321",
			"validityPeriod":   "15",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(content, "654321") {
			t.Errorf("content should contain the code: %s", content)
		}
	})
}
