package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/TriColor-Initiatives/minus/internal/game"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, policy game.Policy) (*mux.Router, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	rules := NewRules(policy)
	r := mux.NewRouter()
	NewHandlers(rules, nil, logger).RegisterRoutes(r)
	return r, hook
}

func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func card(s game.Suit, r game.Rank) game.Card { return game.Card{Suit: s, Rank: r} }

func at(s game.Suit, r game.Rank, seat game.Seat) game.PlayedCard {
	return game.PlayedCard{Card: card(s, r), Seat: seat}
}

func TestHealth(t *testing.T) {
	r, hook := newTestRouter(t, "")
	rec := doJSON(t, r, "GET", "/api/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, "/api/health", entry.Data["path"])
	assert.Equal(t, http.StatusOK, entry.Data["status"])
}

func TestRequestIDIsPropagated(t *testing.T) {
	r, hook := newTestRouter(t, "")
	req := httptest.NewRequest("GET", "/api/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
	assert.Equal(t, "abc-123", hook.LastEntry().Data["request_id"])
}

func TestDeck(t *testing.T) {
	r, _ := newTestRouter(t, "")
	rec := doJSON(t, r, "GET", "/api/deck", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp DeckResponse
	decode(t, rec, &resp)
	require.Len(t, resp.Cards, 52)
	assert.Equal(t, "AS", resp.Cards[0].Display)
	assert.Equal(t, game.Spades, resp.Cards[0].Suit)
	assert.Equal(t, game.Ace, resp.Cards[0].Rank)
}

func TestSortHand(t *testing.T) {
	r, _ := newTestRouter(t, "")
	rec := doJSON(t, r, "POST", "/api/hand/sort", SortHandRequest{
		Hand: []game.Card{card(game.Clubs, game.Ace), card(game.Hearts, game.Ten), card(game.Spades, game.Two)},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SortHandResponse
	decode(t, rec, &resp)
	var got []string
	for _, c := range resp.Hand {
		got = append(got, c.Display)
	}
	assert.Equal(t, []string{"2S", "10H", "AC"}, got)
}

func TestSortHand_RejectsDuplicates(t *testing.T) {
	r, _ := newTestRouter(t, "")
	rec := doJSON(t, r, "POST", "/api/hand/sort", SortHandRequest{
		Hand: []game.Card{card(game.Clubs, game.Ace), card(game.Clubs, game.Ace)},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLegalMoves(t *testing.T) {
	hand := []game.Card{card(game.Hearts, game.Ten), card(game.Hearts, game.Queen), card(game.Spades, game.Five)}
	trick := []game.PlayedCard{at(game.Hearts, game.Nine, 1)}
	yes, no := true, false

	tests := []struct {
		name       string
		defaultPol game.Policy
		req        LegalMovesRequest
		wantPolicy game.Policy
		want       []int
	}{
		{"default follow", "", LegalMovesRequest{Hand: hand, Trick: trick, LeadSuit: "H", TrumpSuit: "S"}, game.PolicyFollow, []int{0, 1}},
		{"enforce high", "", LegalMovesRequest{Hand: hand, Trick: trick, LeadSuit: "H", TrumpSuit: "S", EnforceHigh: &yes}, game.PolicyBeat, []int{0, 1}},
		{"named policy wins over flag", "", LegalMovesRequest{Hand: hand, Trick: trick, LeadSuit: "H", TrumpSuit: "S", EnforceHigh: &yes, Policy: "beat-lowest"}, game.PolicyBeatLowest, []int{0}},
		{"configured default", game.PolicyBeatLowest, LegalMovesRequest{Hand: hand, Trick: trick, LeadSuit: "H", TrumpSuit: "S"}, game.PolicyBeatLowest, []int{0}},
		{"explicit false overrides default", game.PolicyBeatLowest, LegalMovesRequest{Hand: hand, Trick: trick, LeadSuit: "H", TrumpSuit: "S", EnforceHigh: &no}, game.PolicyFollow, []int{0, 1}},
		{"leading needs no lead suit", "", LegalMovesRequest{Hand: hand, TrumpSuit: "S"}, game.PolicyFollow, []int{0, 1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestRouter(t, tt.defaultPol)
			rec := doJSON(t, r, "POST", "/api/moves/legal", tt.req)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var resp LegalMovesResponse
			decode(t, rec, &resp)
			assert.Equal(t, tt.wantPolicy, resp.Policy)
			assert.Equal(t, tt.want, resp.Legal)
			require.Len(t, resp.Cards, len(tt.want))
			for i, idx := range tt.want {
				assert.Equal(t, hand[idx], resp.Cards[i].Card)
			}
		})
	}
}

func TestLegalMoves_BadRequests(t *testing.T) {
	hand := []game.Card{card(game.Hearts, game.Ten)}
	trick := []game.PlayedCard{at(game.Hearts, game.Nine, 1)}

	tests := []struct {
		name string
		body interface{}
	}{
		{"empty hand", LegalMovesRequest{Trick: trick, LeadSuit: "H", TrumpSuit: "S"}},
		{"bad trump", LegalMovesRequest{Hand: hand, Trick: trick, LeadSuit: "H", TrumpSuit: "X"}},
		{"missing lead", LegalMovesRequest{Hand: hand, Trick: trick, TrumpSuit: "S"}},
		{"bad rank", LegalMovesRequest{Hand: []game.Card{card(game.Hearts, 1)}, Trick: trick, LeadSuit: "H", TrumpSuit: "S"}},
		{"seat twice", LegalMovesRequest{Hand: hand, Trick: []game.PlayedCard{at(game.Hearts, game.Nine, 1), at(game.Hearts, game.Two, 1)}, LeadSuit: "H", TrumpSuit: "S"}},
		{"unknown policy", LegalMovesRequest{Hand: hand, Trick: trick, LeadSuit: "H", TrumpSuit: "S", Policy: "strict"}},
		{"not json", "hand"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestRouter(t, "")
			rec := doJSON(t, r, "POST", "/api/moves/legal", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var body map[string]string
			decode(t, rec, &body)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestTrickWinner(t *testing.T) {
	r, _ := newTestRouter(t, "")
	rec := doJSON(t, r, "POST", "/api/trick/winner", TrickWinnerRequest{
		Trick: []game.PlayedCard{
			at(game.Hearts, game.Ten, 0),
			at(game.Hearts, game.Queen, 1),
			at(game.Spades, game.Nine, 2),
			at(game.Hearts, game.King, 3),
		},
		LeadSuit:  game.Hearts,
		TrumpSuit: game.Spades,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp TrickWinnerResponse
	decode(t, rec, &resp)
	assert.Equal(t, 2, resp.Index)
	assert.Equal(t, game.Seat(2), resp.Seat)
	assert.Equal(t, "9S", resp.Display)
}

func TestTrickWinner_NoWinner(t *testing.T) {
	r, _ := newTestRouter(t, "")

	rec := doJSON(t, r, "POST", "/api/trick/winner", TrickWinnerRequest{LeadSuit: "H", TrumpSuit: "S"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = doJSON(t, r, "POST", "/api/trick/winner", TrickWinnerRequest{Trick: []game.PlayedCard{at(game.Hearts, game.Ten, 0)}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNextSeat(t *testing.T) {
	r, _ := newTestRouter(t, "")

	rec := doJSON(t, r, "GET", "/api/seat/3/next", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp NextSeatResponse
	decode(t, rec, &resp)
	assert.Equal(t, NextSeatResponse{Seat: 3, Next: 0}, resp)

	rec = doJSON(t, r, "GET", "/api/seat/4/next", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, r, "GET", "/api/seat/north/next", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
