package emailsvc

import (
	"net/mail"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/rubrica/core"
)

var testConf = &core.Config{AppName: "Rubrica", DefaultFromEmail: "Rubrica <noreply@rubrica.test>"}

func TestConsoleService_format(t *testing.T) {
	svc := NewConsoleService(testConf).(*consoleService)
	date := time.Date(2025, 1, 14, 9, 30, 0, 0, time.UTC)

	out := svc.format(core.EmailMessage{
		To:      []mail.Address{{Name: "Arjun Mehta", Address: "arjun@student.edu"}},
		Subject: "Your project was evaluated",
		Body:    "Marks: 89/100",
	}, date)

	assert.True(t, strings.HasPrefix(out, "From: \"Rubrica\" <noreply@rubrica.test>\r\n"))
	assert.Contains(t, out, "Subject: [Rubrica] Your project was evaluated\r\n")
	assert.Contains(t, out, "To: \"Arjun Mehta\" <arjun@student.edu>\r\n")
	assert.Contains(t, out, "Date: Tue, 14 Jan 2025 09:30:00 +0000\r\n")
	assert.NotContains(t, out, "CC:")
	assert.True(t, strings.HasSuffix(out, "\r\n\r\nMarks: 89/100\r\n"))
}

func TestConsoleServiceMock_SendMessages(t *testing.T) {
	to := []mail.Address{{Address: "arjun@student.edu"}}
	tests := []struct {
		name string
		msg  core.EmailMessage
		sent bool
	}{
		{"no recipients", core.EmailMessage{Subject: "s", Body: "b"}, false},
		{"no content", core.EmailMessage{To: to, Subject: "s"}, false},
		{"complete", core.EmailMessage{To: to, Subject: "s", Body: "b"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewConsoleServiceMock(testConf)
			msg := tc.msg
			svc.SendMessages(&msg)
			if tc.sent {
				assert.Equal(t, []core.EmailMessage{tc.msg}, svc.SentMessages())
			} else {
				assert.Empty(t, svc.SentMessages())
			}
		})
	}
}
