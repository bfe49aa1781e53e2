package config

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestLogger_LokiDisabledByDefault(t *testing.T) {
	RegisterTestingT(t)

	logger := NewNopLogger()

	Expect(logger.LokiEnabled()).To(BeFalse())
	logger.Info(context.Background(), "nothing is pushed")
}

func TestLogger_PushesToLoki(t *testing.T) {
	RegisterTestingT(t)

	received := make(chan lokiPush, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		var payload lokiPush
		json.Unmarshal(body, &payload)

		Expect(r.URL.Path).To(Equal("/loki/api/v1/push"))
		received <- payload
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	logger := newLogger(zap.NewNop(), "todoapi", server.URL+"/")
	logger.Info(context.Background(), "Todo created", zap.Int("id", 2))

	var payload lokiPush
	Eventually(received, 2*time.Second).Should(Receive(&payload))

	Expect(payload.Streams).To(HaveLen(1))
	Expect(payload.Streams[0].Stream).To(HaveKeyWithValue("service", "todoapi"))
	Expect(payload.Streams[0].Stream).To(HaveKeyWithValue("level", zapcore.InfoLevel.String()))

	var line map[string]any
	Expect(json.Unmarshal([]byte(payload.Streams[0].Values[0][1]), &line)).To(Succeed())
	Expect(line).To(HaveKeyWithValue("message", "Todo created"))
	Expect(line).To(HaveKeyWithValue("id", BeNumerically("==", 2)))
}
