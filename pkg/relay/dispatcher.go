package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"lifelayer/relay/pkg/providerfactory"
	"lifelayer/relay/pkg/providers"
	"lifelayer/relay/pkg/telemetry/metrics"
)

// EventSender delivers outbound envelopes to one client. *Session is the
// production implementation; tests substitute a capture sink.
type EventSender interface {
	// ID identifies the owning connection.
	ID() string

	// Send serializes and delivers one envelope. A failed Send means the
	// transport is gone; callers abandon the request, they do not retry.
	Send(ev *OutboundEnvelope) error
}

// ChatUsage summarizes one finished chat request for the usage log.
type ChatUsage struct {
	SessionID string
	RequestID string
	Provider  string
	Model     string
	Status    string
	Tokens    int
	Duration  time.Duration
	Error     string
}

// UsageSink receives a ChatUsage record after each terminal event.
type UsageSink interface {
	RecordChat(ctx context.Context, u ChatUsage)
}

// ProviderDefaults carries operator-configured fallbacks applied when a
// chat request omits the model or base URL.
type ProviderDefaults struct {
	Model   string
	BaseURL string
}

// Dispatcher resolves inbound envelopes into provider calls and outbound
// event sequences. One Dispatcher is shared by all sessions; it holds no
// per-request state.
type Dispatcher struct {
	keys    *providerfactory.KeyStore
	metrics *metrics.Collector
	usage   UsageSink

	// defaults maps provider identifiers to configured fallbacks,
	// replaceable on config reload
	defaultsMu sync.RWMutex
	defaults   map[string]ProviderDefaults

	// newProvider is the adapter factory, swappable in tests
	newProvider func(name string, cfg providers.Config) (providers.Provider, error)
}

// NewDispatcher creates a dispatcher over the given credential store.
// collector and sink may be nil.
func NewDispatcher(keys *providerfactory.KeyStore, collector *metrics.Collector, sink UsageSink) *Dispatcher {
	return &Dispatcher{
		keys:        keys,
		metrics:     collector,
		usage:       sink,
		newProvider: providerfactory.New,
	}
}

// SetProviderDefaults replaces the per-provider fallback table. Safe to
// call while requests are in flight.
func (d *Dispatcher) SetProviderDefaults(defaults map[string]ProviderDefaults) {
	d.defaultsMu.Lock()
	d.defaults = defaults
	d.defaultsMu.Unlock()
}

func (d *Dispatcher) providerDefaults(name string) ProviderDefaults {
	d.defaultsMu.RLock()
	defer d.defaultsMu.RUnlock()
	return d.defaults[name]
}

// HandleMessage processes one inbound message and emits its event sequence
// through sender. It never returns an error: every failure mode becomes an
// outbound error event, and a dead transport is simply abandoned.
func (d *Dispatcher) HandleMessage(ctx context.Context, sender EventSender, raw []byte) {
	var env InboundEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		d.send(sender, NewErrorEvent(RequestIDUnknown, fmt.Sprintf("Invalid JSON: %v", err)))
		return
	}

	requestID := env.RequestID
	if requestID == "" {
		requestID = RequestIDUnknown
	}

	switch env.Action {
	case ActionChat:
		d.handleChat(ctx, sender, requestID, env.Data)
	case ActionConfigure:
		d.handleConfigure(sender, requestID, env.Data)
	default:
		d.send(sender, NewErrorEvent(requestID, fmt.Sprintf("Unknown action: %s", env.Action)))
	}
}

// handleChat drives one chat request through its full lifecycle:
// parse, resolve, stream, terminal event. Exactly one response or error
// event is emitted per invocation unless the transport dies first.
func (d *Dispatcher) handleChat(ctx context.Context, sender EventSender, requestID string, rawData json.RawMessage) {
	started := time.Now()

	var data ChatData
	if len(rawData) > 0 {
		if err := json.Unmarshal(rawData, &data); err != nil {
			d.send(sender, NewErrorEvent(requestID, fmt.Sprintf("Invalid chat request: %v", err)))
			return
		}
	}

	if data.Provider == "" {
		data.Provider = providerfactory.ProviderOpenAI
	}

	defaults := d.providerDefaults(data.Provider)
	if data.Model == "" {
		data.Model = defaults.Model
	}
	if data.BaseURL == "" {
		data.BaseURL = defaults.BaseURL
	}

	fail := func(message string) {
		if err := d.send(sender, NewErrorEvent(requestID, message)); err != nil {
			// Transport gone, nothing was delivered to record
			return
		}
		d.finishChat(ctx, sender, requestID, data, "error", 0, started, message)
	}

	if data.Prompt == "" {
		fail("No prompt provided")
		return
	}

	apiKey := data.APIKey
	if apiKey == "" {
		apiKey, _ = d.keys.Lookup(data.Provider)
	}

	provider, err := d.newProvider(data.Provider, providers.Config{
		APIKey:  apiKey,
		Model:   data.Model,
		BaseURL: data.BaseURL,
	})
	if err != nil {
		fail(err.Error())
		return
	}

	if !provider.IsConfigured() && providerfactory.RequiresKey(data.Provider) {
		fail(fmt.Sprintf("Provider %s not configured. Please provide API key.", data.Provider))
		return
	}

	messages := []providers.ChatMessage{
		{Role: providers.RoleUser, Content: data.Prompt},
	}

	if data.Stream != nil && !*data.Stream {
		content, err := provider.Chat(ctx, messages, data.SystemPrompt)
		if err != nil {
			fail(err.Error())
			return
		}
		if err := d.send(sender, NewChatResponseEvent(requestID, content)); err != nil {
			return
		}
		d.finishChat(ctx, sender, requestID, data, "success", 0, started, "")
		return
	}

	chunks, err := provider.ChatStream(ctx, messages, data.SystemPrompt)
	if err != nil {
		fail(err.Error())
		return
	}

	var fullResponse string
	tokens := 0

	for chunk := range chunks {
		if chunk.Err != nil {
			slog.Error("chat stream failed",
				"session_id", sender.ID(),
				"request_id", requestID,
				"provider", data.Provider,
				"error", chunk.Err,
			)
			fail(chunk.Err.Error())
			return
		}

		fullResponse += chunk.Text
		tokens++

		if err := d.send(sender, NewStreamEvent(requestID, chunk.Text)); err != nil {
			// Transport gone: abandon without a terminal event, the
			// session is unwinding.
			return
		}
		d.metrics.RecordStreamToken(data.Provider)
	}

	if err := d.send(sender, NewChatResponseEvent(requestID, fullResponse)); err != nil {
		// Same as mid-stream: a request the client never saw finish is
		// abandoned, not recorded as success.
		return
	}
	d.finishChat(ctx, sender, requestID, data, "success", tokens, started, "")
}

// handleConfigure merges api_keys into the credential store and
// acknowledges with the sorted list of providers that were set.
func (d *Dispatcher) handleConfigure(sender EventSender, requestID string, rawData json.RawMessage) {
	var data ConfigureData
	if len(rawData) > 0 {
		if err := json.Unmarshal(rawData, &data); err != nil {
			d.send(sender, NewErrorEvent(requestID, fmt.Sprintf("Invalid configure request: %v", err)))
			return
		}
	}

	configured := d.keys.Update(data.APIKeys)
	slog.Info("api keys configured",
		"session_id", sender.ID(),
		"providers", configured,
	)

	d.send(sender, NewConfigureResponseEvent(requestID, configured))
}

// finishChat records metrics and the usage log entry for a terminal event.
func (d *Dispatcher) finishChat(ctx context.Context, sender EventSender, requestID string, data ChatData, status string, tokens int, started time.Time, errMsg string) {
	duration := time.Since(started)

	d.metrics.RecordRequest(data.Provider, ActionChat, status)
	d.metrics.ObserveProviderLatency(data.Provider, data.Model, duration.Seconds())

	if d.usage != nil {
		d.usage.RecordChat(ctx, ChatUsage{
			SessionID: sender.ID(),
			RequestID: requestID,
			Provider:  data.Provider,
			Model:     data.Model,
			Status:    status,
			Tokens:    tokens,
			Duration:  duration,
			Error:     errMsg,
		})
	}
}

// send delivers one envelope, logging delivery failures at debug level
// (they are expected during disconnect).
func (d *Dispatcher) send(sender EventSender, ev *OutboundEnvelope) error {
	if err := sender.Send(ev); err != nil {
		slog.Debug("failed to send event",
			"session_id", sender.ID(),
			"type", ev.Type,
			"error", err,
		)
		return err
	}
	return nil
}
