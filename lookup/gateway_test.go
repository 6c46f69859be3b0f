package lookup

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestGateway(translateURL, dictionaryURL string) *Gateway {
	return NewGateway(Config{
		TranslateURL:   translateURL,
		DictionaryURL:  dictionaryURL,
		LangPair:       "en|uk",
		TimeoutSeconds: 2,
	})
}

func TestTranslationSuccess(t *testing.T) {
	var gotQuery, gotPair string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/get" {
			t.Errorf("path = %s, want /get", r.URL.Path)
		}
		gotQuery = r.URL.Query().Get("q")
		gotPair = r.URL.Query().Get("langpair")
		_, _ = w.Write([]byte(`{"responseData":{"translatedText":"лисиця"}}`))
	}))
	defer srv.Close()

	g := newTestGateway(srv.URL, srv.URL)
	if got := g.Translation(context.Background(), "fox"); got != "лисиця" {
		t.Fatalf("translation = %q", got)
	}
	if gotQuery != "fox" || gotPair != "en|uk" {
		t.Fatalf("request params: q=%q langpair=%q", gotQuery, gotPair)
	}
}

func TestTranslationDegradesToUnknown(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{not json`))
			},
		},
		{
			name: "empty translated text",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"responseData":{"translatedText":"  "}}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			g := newTestGateway(srv.URL, srv.URL)
			if got := g.Translation(context.Background(), "fox"); got != Unknown {
				t.Fatalf("translation = %q, want %q", got, Unknown)
			}
		})
	}
}

func TestTranscriptionTakesFirstPhonetic(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v2/entries/en/fox" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`[{"phonetics":[{"text":""},{"text":"/fɒks/"},{"text":"/foks/"}]}]`))
	}))
	defer srv.Close()

	g := newTestGateway(srv.URL, srv.URL)
	if got := g.Transcription(context.Background(), "fox"); got != "/fɒks/" {
		t.Fatalf("transcription = %q", got)
	}
}

func TestTranscriptionNoPhonetics(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"phonetics":[]}]`))
	}))
	defer srv.Close()

	g := newTestGateway(srv.URL, srv.URL)
	if got := g.Transcription(context.Background(), "fox"); got != Unknown {
		t.Fatalf("transcription = %q, want %q", got, Unknown)
	}
}

func TestLookupServicesFailIndependently(t *testing.T) {
	translate := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"responseData":{"translatedText":"лисиця"}}`))
	}))
	defer translate.Close()
	dictionary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer dictionary.Close()

	g := newTestGateway(translate.URL, dictionary.URL)
	translation, transcription := g.Lookup(context.Background(), "fox")
	if translation != "лисиця" {
		t.Fatalf("translation = %q", translation)
	}
	if transcription != Unknown {
		t.Fatalf("transcription = %q, want %q", transcription, Unknown)
	}
}

func TestNormalizeDefaults(t *testing.T) {
	var cfg Config
	Normalize(&cfg)
	if cfg.TranslateURL == "" || cfg.DictionaryURL == "" {
		t.Fatal("defaults not applied")
	}
	if cfg.LangPair != "en|uk" {
		t.Fatalf("lang pair = %q", cfg.LangPair)
	}
	if cfg.TimeoutSeconds != 5 {
		t.Fatalf("timeout = %d", cfg.TimeoutSeconds)
	}
}
