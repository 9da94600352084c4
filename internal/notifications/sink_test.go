package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/polly-storefront/pkg/enums"
	"github.com/angelmondragon/polly-storefront/pkg/logger"
)

func TestBufferDrain(t *testing.T) {
	buf := NewBuffer()
	if got := buf.Drain(); got == nil || len(got) != 0 {
		t.Fatalf("empty buffer should drain to empty slice, got %#v", got)
	}

	buf.Notify(context.Background(), Notification{Title: "a"})
	buf.Notify(context.Background(), Notification{Title: "b"})
	got := buf.Drain()
	if len(got) != 2 || got[0].Title != "a" || got[1].Title != "b" {
		t.Fatalf("unexpected drain %#v", got)
	}
	if len(buf.Drain()) != 0 {
		t.Fatal("drain should empty the buffer")
	}
}

func TestContextSinkForwardsToRequestBuffer(t *testing.T) {
	buf := NewBuffer()
	ctx := WithBuffer(context.Background(), buf)

	ContextSink{}.Notify(ctx, Notification{Title: "Carrinho Limpo"})
	ContextSink{}.Notify(context.Background(), Notification{Title: "dropped"})

	got := buf.Drain()
	if len(got) != 1 || got[0].Title != "Carrinho Limpo" {
		t.Fatalf("unexpected notifications %#v", got)
	}
}

func TestFanoutDeliversToAll(t *testing.T) {
	a, b := NewBuffer(), NewBuffer()
	Fanout{a, nil, b}.Notify(context.Background(), Notification{Title: "x"})
	if len(a.Drain()) != 1 || len(b.Drain()) != 1 {
		t.Fatal("expected every sink to receive the notification")
	}
}

func TestLogSinkWritesDebugEntry(t *testing.T) {
	out := &bytes.Buffer{}
	logg := logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: out})

	NewLogSink(logg).Notify(context.Background(), Notification{
		Title:       "Produto Removido",
		Description: "Widget foi removido do carrinho.",
		Variant:     enums.NotificationVariantDestructive,
		Duration:    3 * time.Second,
	})

	entry := out.String()
	if !strings.Contains(entry, `"notification_variant":"destructive"`) {
		t.Fatalf("missing variant in %s", entry)
	}
	if !strings.Contains(entry, "Widget foi removido do carrinho.") {
		t.Fatalf("missing description in %s", entry)
	}
}

func TestNotificationJSON(t *testing.T) {
	raw, err := json.Marshal(Notification{
		Title:       "Carrinho Limpo",
		Description: "Todos os produtos foram removidos do carrinho.",
		Variant:     enums.NotificationVariantDefault,
		Duration:    3 * time.Second,
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"title":"Carrinho Limpo","description":"Todos os produtos foram removidos do carrinho.","variant":"default","duration_ms":3000}`
	if string(raw) != want {
		t.Fatalf("expected %s, got %s", want, raw)
	}
}
