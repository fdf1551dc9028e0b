package wizardapi

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mmcdole/grimoire/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, 2*time.Second, testLogger())
	require.NoError(t, err)
	return c
}

func TestParseBaseURL(t *testing.T) {
	u, err := parseBaseURL("")
	require.NoError(t, err)
	require.Equal(t, DefaultBaseURL, u.String())

	u, err = parseBaseURL("http://localhost:8080/api/?x=1#frag")
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8080/api", u.String())

	_, err = parseBaseURL("ftp://example.com")
	require.Error(t, err)

	_, err = parseBaseURL("http://")
	require.Error(t, err)
}

func TestClient_FetchesCollections(t *testing.T) {
	var gotPaths []string
	var gotRequestID, gotAccept string

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPaths = append(gotPaths, r.URL.Path)
		gotRequestID = r.Header.Get("X-Request-ID")
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/Houses":
			_, _ = io.WriteString(w, `[{"id":"h1","name":"Gryffindor","founder":"Godric Gryffindor","heads":[{"id":"p1","firstName":"Minerva","lastName":"McGonagall"}],"traits":[{"id":"t1","name":"Courage"}]}]`)
		case "/Spells":
			_, _ = io.WriteString(w, `[{"id":"s1","name":"Healing","type":"HealingSpell","light":"IcyBlue","canBeVerbal":true}]`)
		case "/Elixirs":
			_, _ = io.WriteString(w, `[{"id":"e1","name":"Draught of Peace","difficulty":"OrdinaryWizardingLevel","ingredients":[{"id":"i1","name":"Moonstone"}],"inventors":[]}]`)
		case "/Ingredients":
			_, _ = io.WriteString(w, `[]`)
		case "/Wizards":
			_, _ = io.WriteString(w, `[{"id":"w1","firstName":"Severus","lastName":"Snape","elixirs":[{"id":"e1","name":"Draught of Peace"}]}]`)
		default:
			http.NotFound(w, r)
		}
	})

	ctx := context.Background()

	houses, err := c.Houses(ctx)
	require.NoError(t, err)
	require.Len(t, houses, 1)
	require.Equal(t, "Minerva McGonagall", houses[0].Heads[0].Name())
	require.NotEmpty(t, gotRequestID)
	require.Equal(t, "application/json", gotAccept)

	spells, err := c.Spells(ctx)
	require.NoError(t, err)
	require.Equal(t, domain.SpellTypeHealingSpell, spells[0].Type)
	require.Equal(t, domain.SpellLightIcyBlue, spells[0].Light)

	elixirs, err := c.Elixirs(ctx)
	require.NoError(t, err)
	require.Equal(t, domain.DifficultyOrdinaryWizardingLevel, elixirs[0].Difficulty)

	ingredients, err := c.Ingredients(ctx)
	require.NoError(t, err)
	require.NotNil(t, ingredients)
	require.Empty(t, ingredients)

	wizards, err := c.Wizards(ctx)
	require.NoError(t, err)
	require.Equal(t, "Severus Snape", wizards[0].FullName())

	require.Equal(t, []string{"/Houses", "/Spells", "/Elixirs", "/Ingredients", "/Wizards"}, gotPaths)
}

func TestClient_FetchByIDEscapesID(t *testing.T) {
	var gotRawPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotRawPath = r.URL.EscapedPath()
		_, _ = io.WriteString(w, `{"id":"a b","name":"Hufflepuff"}`)
	})

	house, err := c.House(context.Background(), "a b")
	require.NoError(t, err)
	require.Equal(t, "Hufflepuff", house.Name)
	require.Equal(t, "/Houses/a%20b", gotRawPath)
}

func TestClient_FetchByIDRequiresID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("unexpected request to %s", r.URL.Path)
	})
	_, err := c.Wizard(context.Background(), "  ")
	require.Error(t, err)
}

func TestClient_ErrorTaxonomy(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/Spells":
			http.Error(w, "boom", http.StatusInternalServerError)
		case "/Elixirs":
			_, _ = io.WriteString(w, `{not-json`)
		case "/Wizards":
			_, _ = io.WriteString(w, `[{"id":"w1"},{"firstName":"Nameless"}]`)
		case "/Houses":
			_, _ = io.WriteString(w, `[{"id":"h1","name":"Slytherin"}]`)
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	_, err := c.Spells(ctx)
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	require.ErrorIs(t, err, domain.ErrUnexpectedStatus)

	_, err = c.Elixirs(ctx)
	require.ErrorIs(t, err, domain.ErrDecode)

	_, err = c.Wizards(ctx)
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	require.Equal(t, 1, decodeErr.Index)

	_, err = c.Spell(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClient_RejectsUnknownEnum(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"id":"s1","name":"Lumos","type":"Cantrip"}]`)
	})
	_, err := c.Spells(context.Background())
	require.ErrorIs(t, err, domain.ErrDecode)
}

func TestClient_ServerOffline(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	addr := server.URL
	server.Close()

	c, err := NewClient(addr, time.Second, testLogger())
	require.NoError(t, err)

	_, err = c.Houses(context.Background())
	require.ErrorIs(t, err, domain.ErrServerOffline)
}

func TestClient_CanceledContextIsNotOffline(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Houses(ctx)
	require.Error(t, err)
	require.True(t, errors.Is(err, context.Canceled))
	require.False(t, errors.Is(err, domain.ErrServerOffline))
}
