package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"lexibot/core/logger"
	"log/slog"
)

// Unknown is returned for any lookup that fails. There is no retry: a
// single failed attempt is permanent for that call, and the placeholder
// stays visible to the user.
const Unknown = "-"

const component = "service.lookup"

// Config holds the external dictionary service settings.
type Config struct {
	TranslateURL   string `yaml:"translate_url" envconfig:"LOOKUP_TRANSLATE_URL"`
	DictionaryURL  string `yaml:"dictionary_url" envconfig:"LOOKUP_DICTIONARY_URL"`
	LangPair       string `yaml:"lang_pair" envconfig:"LOOKUP_LANG_PAIR"`
	TimeoutSeconds int    `yaml:"timeout_seconds" envconfig:"LOOKUP_TIMEOUT_SECONDS"`
}

// Normalize fills defaults for unset fields.
func Normalize(cfg *Config) {
	if strings.TrimSpace(cfg.TranslateURL) == "" {
		cfg.TranslateURL = "https://api.mymemory.translated.net"
	}
	if strings.TrimSpace(cfg.DictionaryURL) == "" {
		cfg.DictionaryURL = "https://api.dictionaryapi.dev"
	}
	if strings.TrimSpace(cfg.LangPair) == "" {
		cfg.LangPair = "en|uk"
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = 5
	}
}

// Gateway performs one-shot translation and transcription lookups.
// Both methods degrade to Unknown on any failure and never surface an
// error to the caller; the two services fail independently.
type Gateway struct {
	cfg    Config
	client *http.Client
}

// NewGateway builds a Gateway with a timeout-bounded HTTP client so a
// hung external call cannot wedge a user's session.
func NewGateway(cfg Config) *Gateway {
	Normalize(&cfg)
	return &Gateway{
		cfg: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

type translateResponse struct {
	ResponseData struct {
		TranslatedText string `json:"translatedText"`
	} `json:"responseData"`
}

type dictionaryEntry struct {
	Phonetics []struct {
		Text string `json:"text"`
	} `json:"phonetics"`
}

// Translation returns the translation of word, or Unknown.
func (g *Gateway) Translation(ctx context.Context, word string) string {
	reqURL := fmt.Sprintf("%s/get?q=%s&langpair=%s",
		strings.TrimRight(g.cfg.TranslateURL, "/"),
		url.QueryEscape(word),
		url.QueryEscape(g.cfg.LangPair),
	)

	var decoded translateResponse
	if err := g.getJSON(ctx, reqURL, &decoded); err != nil {
		g.logFailure(ctx, "translate", word, err)
		return Unknown
	}
	text := strings.TrimSpace(decoded.ResponseData.TranslatedText)
	if text == "" {
		g.logFailure(ctx, "translate", word, fmt.Errorf("empty translation"))
		return Unknown
	}
	return text
}

// Transcription returns the phonetic transcription of word, or Unknown.
func (g *Gateway) Transcription(ctx context.Context, word string) string {
	reqURL := fmt.Sprintf("%s/api/v2/entries/en/%s",
		strings.TrimRight(g.cfg.DictionaryURL, "/"),
		url.PathEscape(word),
	)

	var entries []dictionaryEntry
	if err := g.getJSON(ctx, reqURL, &entries); err != nil {
		g.logFailure(ctx, "transcribe", word, err)
		return Unknown
	}
	for _, entry := range entries {
		for _, p := range entry.Phonetics {
			if text := strings.TrimSpace(p.Text); text != "" {
				return text
			}
		}
	}
	return Unknown
}

// Lookup fetches both fields concurrently. One lookup succeeding does not
// imply the other does.
func (g *Gateway) Lookup(ctx context.Context, word string) (translation, transcription string) {
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		translation = g.Translation(egCtx, word)
		return nil
	})
	eg.Go(func() error {
		transcription = g.Transcription(egCtx, word)
		return nil
	})
	_ = eg.Wait()
	return translation, transcription
}

func (g *Gateway) getJSON(ctx context.Context, reqURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (g *Gateway) logFailure(ctx context.Context, op, word string, err error) {
	logger.Warn(ctx, component, "lookup.failed",
		slog.String("operation", op),
		slog.String("word", word),
		slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
	)
}
