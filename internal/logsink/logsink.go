// Package logsink ships structured log lines to an Azure append blob in
// batches, so container stdout is not the only place logs live.
package logsink

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/appendblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
)

type Config struct {
	AccountName string
	AccountKey  string
	Container   string
	BlobName    string        // defaults to yyyy/mm/dd/<hostname>.jsonl
	FlushEvery  time.Duration // default 2s
}

// Enabled reports whether enough configuration is present to ship logs.
func (c Config) Enabled() bool {
	return c.AccountName != "" && c.AccountKey != "" && c.Container != ""
}

func FromEnv() Config {
	return Config{
		AccountName: os.Getenv("AZURE_STORAGE_ACCOUNT_NAME"),
		AccountKey:  os.Getenv("AZURE_STORAGE_PRIMARY_ACCOUNT_KEY"),
		Container:   os.Getenv("LOG_CONTAINER"),
	}
}

type Handler struct {
	ab     *appendblob.Client
	ch     chan []byte
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	ticker *time.Ticker
}

func New(ctx context.Context, cfg Config) (*Handler, error) {
	if !cfg.Enabled() {
		return nil, errors.New("AccountName, AccountKey, and Container are required")
	}

	if cfg.BlobName == "" {
		host, _ := os.Hostname()
		cfg.BlobName = FormatDateFolder(time.Now().UTC()) + "/" + host + ".jsonl"
	}
	if cfg.FlushEvery <= 0 {
		cfg.FlushEvery = 2 * time.Second
	}

	cred, err := azblob.NewSharedKeyCredential(cfg.AccountName, cfg.AccountKey)
	if err != nil {
		return nil, err
	}
	// BlobName may include slashes; don't path-escape it.
	blobURL := "https://" + cfg.AccountName + ".blob.core.windows.net/" +
		url.PathEscape(cfg.Container) + "/" + cfg.BlobName
	ab, err := appendblob.NewClientWithSharedKeyCredential(blobURL, cred, nil)
	if err != nil {
		return nil, err
	}
	if _, err := ab.Create(ctx, nil); err != nil && !bloberror.HasCode(err, bloberror.BlobAlreadyExists) {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	h := &Handler{
		ab:     ab,
		ch:     make(chan []byte, 1024),
		ctx:    ctx,
		cancel: cancel,
		ticker: time.NewTicker(cfg.FlushEvery),
	}
	h.wg.Add(1)
	go h.loop()
	return h, nil
}

// Close flushes whatever is buffered and stops the shipping loop.
func (h *Handler) Close() error {
	h.cancel()
	h.wg.Wait()
	h.ticker.Stop()
	return nil
}

// slog.Handler

func (h *Handler) Enabled(context.Context, slog.Level) bool { return true }

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	line, err := encodeRecord(r)
	if err != nil {
		return err
	}
	select {
	case h.ch <- line:
		return nil
	case <-h.ctx.Done():
		return h.ctx.Err()
	}
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &withAttrs{Handler: h, attrs: attrs}
}

func (h *Handler) WithGroup(string) slog.Handler { return h }

// encodeRecord flattens a record into one JSON line. Groups are expanded
// one level deep, which covers everything the app logs.
func encodeRecord(r slog.Record) ([]byte, error) {
	ev := make(map[string]any, r.NumAttrs()+3)
	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	ev["ts"] = ts.UTC().Format(time.RFC3339Nano)
	ev["level"] = r.Level.String()
	ev["msg"] = r.Message

	r.Attrs(func(a slog.Attr) bool {
		a.Value = a.Value.Resolve()
		if a.Value.Kind() == slog.KindGroup {
			m := map[string]any{}
			for _, ga := range a.Value.Group() {
				ga.Value = ga.Value.Resolve()
				m[ga.Key] = ga.Value.Any()
			}
			ev[a.Key] = m
		} else {
			ev[a.Key] = a.Value.Any()
		}
		return true
	})

	var b bytes.Buffer
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(ev); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func (h *Handler) loop() {
	defer h.wg.Done()
	var buf []byte
	flush := func() {
		if len(buf) == 0 {
			return
		}
		// shutdown flush still needs a live context
		_, _ = h.ab.AppendBlock(context.Background(), readSeekNopCloser{bytes.NewReader(buf)}, nil)
		buf = buf[:0]
	}

	for {
		select {
		case <-h.ctx.Done():
			// drain what Handle already queued before the final flush
			for {
				select {
				case line := <-h.ch:
					buf = append(buf, line...)
				default:
					flush()
					return
				}
			}
		case line := <-h.ch:
			buf = append(buf, line...)
		case <-h.ticker.C:
			flush()
		}
	}
}

type withAttrs struct {
	slog.Handler
	attrs []slog.Attr
}

func (w *withAttrs) Handle(ctx context.Context, r slog.Record) error {
	clone := r.Clone()
	clone.AddAttrs(w.attrs...)
	return w.Handler.Handle(ctx, clone)
}

type readSeekNopCloser struct{ io.ReadSeeker }

func (readSeekNopCloser) Close() error { return nil }
