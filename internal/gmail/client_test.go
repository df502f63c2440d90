package gmail

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	gmailapi "google.golang.org/api/gmail/v1"
)

func encodedPart(mimeType, content string) *gmailapi.MessagePart {
	return &gmailapi.MessagePart{
		MimeType: mimeType,
		Body: &gmailapi.MessagePartBody{
			Data: base64.URLEncoding.EncodeToString([]byte(content)),
		},
	}
}

func TestExtractBody(t *testing.T) {
	t.Run("prefers text/plain over text/html", func(t *testing.T) {
		payload := &gmailapi.MessagePart{
			MimeType: "multipart/alternative",
			Parts: []*gmailapi.MessagePart{
				encodedPart("text/html", "<p>html</p>"),
				encodedPart("text/plain", "plain"),
			},
		}
		assert.Equal(t, "plain", extractBody(payload))
	})

	t.Run("falls back to text/html", func(t *testing.T) {
		payload := &gmailapi.MessagePart{
			MimeType: "multipart/alternative",
			Parts: []*gmailapi.MessagePart{
				encodedPart("text/html", "<p>html</p>"),
			},
		}
		assert.Equal(t, "<p>html</p>", extractBody(payload))
	})

	t.Run("finds nested parts", func(t *testing.T) {
		payload := &gmailapi.MessagePart{
			MimeType: "multipart/mixed",
			Parts: []*gmailapi.MessagePart{
				{
					MimeType: "multipart/alternative",
					Parts: []*gmailapi.MessagePart{
						encodedPart("text/plain", "nested"),
					},
				},
			},
		}
		assert.Equal(t, "nested", extractBody(payload))
	})

	t.Run("uses top level body when there are no parts", func(t *testing.T) {
		payload := encodedPart("text/plain", "top level")
		assert.Equal(t, "top level", extractBody(payload))
	})

	t.Run("nil and empty payloads yield nothing", func(t *testing.T) {
		assert.Equal(t, "", extractBody(nil))
		assert.Equal(t, "", extractBody(&gmailapi.MessagePart{MimeType: "multipart/mixed"}))
	})
}

func TestDecodePart(t *testing.T) {
	padded := base64.URLEncoding.EncodeToString([]byte("ciao"))
	unpadded := base64.RawURLEncoding.EncodeToString([]byte("ciao"))

	assert.Equal(t, "ciao", decodePart(padded))
	assert.Equal(t, "ciao", decodePart(unpadded))
	assert.Equal(t, "", decodePart("!!!not base64!!!"))
}
