package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/lotobot/internal/domain"
)

const testToken = "123:abc"

// fakeTelegram responde getMe y sendMessage como la Bot API.
func fakeTelegram(t *testing.T, failSends int32, sent *atomic.Value) *httptest.Server {
	t.Helper()
	var sends atomic.Int32
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/bot" + testToken + "/getMe":
			w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"lotobot","username":"lotobot"}}`))
		case "/bot" + testToken + "/sendMessage":
			if sends.Add(1) <= failSends {
				w.Write([]byte(`{"ok":false,"error_code":500,"description":"internal"}`))
				return
			}
			r.ParseForm()
			sent.Store(r.FormValue("text"))
			w.Write([]byte(`{"ok":true,"result":{"message_id":7,"date":0,"chat":{"id":42,"type":"private"}}}`))
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestTelegram_ReportTickets(t *testing.T) {
	var sent atomic.Value
	srv := fakeTelegram(t, 1, &sent)
	defer srv.Close()

	tg, err := NewTelegram(testToken, "42", srv.URL+"/bot%s/%s", 3, time.Millisecond)
	require.NoError(t, err)

	summary := domain.GenerationSummary{
		Universe:   domain.RangeSet(1, 16),
		Previous:   domain.Draw{Contest: 3500},
		Considered: 16,
		Kept:       1,
	}
	require.NoError(t, tg.ReportTickets(context.Background(), summary, []domain.Ticket{domain.Ticket(domain.RangeSet(1, 15))}))

	text, _ := sent.Load().(string)
	assert.Contains(t, text, "concurso 3500")
	assert.Contains(t, text, "`01, 02, 03, 04, 05, 06, 07, 08, 09, 10, 11, 12, 13, 14, 15`")
}

func TestTelegram_InvalidChatID(t *testing.T) {
	var sent atomic.Value
	srv := fakeTelegram(t, 0, &sent)
	defer srv.Close()

	_, err := NewTelegram(testToken, "not-a-number", srv.URL+"/bot%s/%s", 0, 0)
	assert.Error(t, err)
}

func TestFormatTickets_Truncates(t *testing.T) {
	tickets := make([]domain.Ticket, telegramMaxTickets+5)
	for i := range tickets {
		tickets[i] = domain.Ticket(domain.RangeSet(1, 15))
	}
	msg := formatTickets(domain.GenerationSummary{Universe: domain.RangeSet(1, 15)}, tickets)
	assert.Contains(t, msg, "\\+5")
	assert.Equal(t, telegramMaxTickets, strings.Count(msg, "`")/2)
}

func TestEscapeMarkdownV2(t *testing.T) {
	assert.Equal(t, `01, 02 \- 3\.5 \(x\)`, escapeMarkdownV2("01, 02 - 3.5 (x)"))
}
