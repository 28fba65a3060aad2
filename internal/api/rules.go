package api

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/TriColor-Initiatives/minus/internal/game"
)

var (
	// ErrBadRequest marks queries that are malformed or reference invalid cards.
	ErrBadRequest = errors.New("bad request")
	// ErrNoWinner is returned when a trick holds no lead-suit or trump card.
	ErrNoWinner = errors.New("trick has no winner")
)

type CardView struct {
	game.Card
	Display string `json:"display"`
}

func viewCards(cards []game.Card) []CardView {
	out := make([]CardView, len(cards))
	for i, c := range cards {
		out[i] = CardView{Card: c, Display: c.String()}
	}
	return out
}

type DeckResponse struct {
	Cards []CardView `json:"cards"`
}

type SortHandRequest struct {
	Hand []game.Card `json:"hand"`
}

type SortHandResponse struct {
	Hand []CardView `json:"hand"`
}

type LegalMovesRequest struct {
	Hand        []game.Card       `json:"hand"`
	Trick       []game.PlayedCard `json:"trick"`
	LeadSuit    game.Suit         `json:"leadSuit"`
	TrumpSuit   game.Suit         `json:"trumpSuit"`
	EnforceHigh *bool             `json:"enforceHigh,omitempty"`
	Policy      string            `json:"policy,omitempty"`
}

type LegalMovesResponse struct {
	Policy game.Policy `json:"policy"`
	Legal  []int       `json:"legal"`
	Cards  []CardView  `json:"cards"`
}

type TrickWinnerRequest struct {
	Trick     []game.PlayedCard `json:"trick"`
	LeadSuit  game.Suit         `json:"leadSuit"`
	TrumpSuit game.Suit         `json:"trumpSuit"`
}

type TrickWinnerResponse struct {
	Index   int             `json:"index"`
	Winner  game.PlayedCard `json:"winner"`
	Seat    game.Seat       `json:"seat"`
	Display string          `json:"display"`
}

type NextSeatRequest struct {
	Seat game.Seat `json:"seat"`
}

type NextSeatResponse struct {
	Seat game.Seat `json:"seat"`
	Next game.Seat `json:"next"`
}

// Rules answers engine queries for both the HTTP and websocket surfaces.
// It holds no state besides the default legality policy.
type Rules struct {
	policy game.Policy
}

// NewRules creates a Rules using policy when a request does not choose one.
func NewRules(policy game.Policy) *Rules {
	if policy == "" {
		policy = game.PolicyFollow
	}
	return &Rules{policy: policy}
}

func (r *Rules) Deck() DeckResponse {
	return DeckResponse{Cards: viewCards(game.NewDeck().Cards)}
}

func (r *Rules) SortHand(req SortHandRequest) (SortHandResponse, error) {
	if err := validateCards(req.Hand); err != nil {
		return SortHandResponse{}, err
	}
	return SortHandResponse{Hand: viewCards(game.SortedHand(req.Hand))}, nil
}

func (r *Rules) LegalMoves(req LegalMovesRequest) (LegalMovesResponse, error) {
	if len(req.Hand) == 0 {
		return LegalMovesResponse{}, fmt.Errorf("%w: hand is empty", ErrBadRequest)
	}
	if err := validateCards(req.Hand); err != nil {
		return LegalMovesResponse{}, err
	}
	if err := validateTrick(req.Trick); err != nil {
		return LegalMovesResponse{}, err
	}
	if len(req.Trick) > 0 && !req.LeadSuit.Valid() {
		return LegalMovesResponse{}, fmt.Errorf("%w: invalid lead suit %q", ErrBadRequest, req.LeadSuit)
	}
	if !req.TrumpSuit.Valid() {
		return LegalMovesResponse{}, fmt.Errorf("%w: invalid trump suit %q", ErrBadRequest, req.TrumpSuit)
	}

	policy := r.policy
	switch {
	case req.Policy != "":
		p, err := game.ParsePolicy(req.Policy)
		if err != nil {
			return LegalMovesResponse{}, fmt.Errorf("%w: %v", ErrBadRequest, err)
		}
		policy = p
	case req.EnforceHigh != nil && *req.EnforceHigh:
		policy = game.PolicyBeat
	case req.EnforceHigh != nil:
		policy = game.PolicyFollow
	}

	legal := game.LegalMovesWithPolicy(req.Hand, req.Trick, req.LeadSuit, req.TrumpSuit, policy)
	cards := make([]game.Card, len(legal))
	for i, idx := range legal {
		cards[i] = req.Hand[idx]
	}

	return LegalMovesResponse{Policy: policy, Legal: legal, Cards: viewCards(cards)}, nil
}

func (r *Rules) TrickWinner(req TrickWinnerRequest) (TrickWinnerResponse, error) {
	if err := validateTrick(req.Trick); err != nil {
		return TrickWinnerResponse{}, err
	}
	if !req.LeadSuit.Valid() || !req.TrumpSuit.Valid() {
		return TrickWinnerResponse{}, fmt.Errorf("%w: lead and trump suits are required", ErrBadRequest)
	}

	res, ok := game.TrickWinner(req.Trick, req.LeadSuit, req.TrumpSuit)
	if !ok {
		return TrickWinnerResponse{}, ErrNoWinner
	}

	return TrickWinnerResponse{
		Index:   res.Index,
		Winner:  res.Winner,
		Seat:    res.Winner.Seat,
		Display: res.Winner.Card.String(),
	}, nil
}

func (r *Rules) NextSeat(req NextSeatRequest) (NextSeatResponse, error) {
	if !req.Seat.Valid() {
		return NextSeatResponse{}, fmt.Errorf("%w: seat %d out of range", ErrBadRequest, req.Seat)
	}
	return NextSeatResponse{Seat: req.Seat, Next: game.NextSeat(req.Seat)}, nil
}

// Dispatch routes a named query with a JSON payload to the matching method.
// The websocket hub uses it to serve the same queries as the HTTP routes.
func (r *Rules) Dispatch(kind string, data json.RawMessage) (interface{}, error) {
	switch kind {
	case "deck":
		return r.Deck(), nil
	case "sortHand":
		var req SortHandRequest
		if err := decodePayload(data, &req); err != nil {
			return nil, err
		}
		return r.SortHand(req)
	case "legalMoves":
		var req LegalMovesRequest
		if err := decodePayload(data, &req); err != nil {
			return nil, err
		}
		return r.LegalMoves(req)
	case "trickWinner":
		var req TrickWinnerRequest
		if err := decodePayload(data, &req); err != nil {
			return nil, err
		}
		return r.TrickWinner(req)
	case "nextSeat":
		var req NextSeatRequest
		if err := decodePayload(data, &req); err != nil {
			return nil, err
		}
		return r.NextSeat(req)
	default:
		return nil, fmt.Errorf("%w: unknown message type %q", ErrBadRequest, kind)
	}
}

func decodePayload(data json.RawMessage, v interface{}) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: missing data", ErrBadRequest)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return nil
}

func validateCards(cards []game.Card) error {
	seen := make(map[game.Card]bool, len(cards))
	for _, c := range cards {
		if !c.Suit.Valid() || !c.Rank.Valid() {
			return fmt.Errorf("%w: invalid card %+v", ErrBadRequest, c)
		}
		if seen[c] {
			return fmt.Errorf("%w: duplicate card %s", ErrBadRequest, c)
		}
		seen[c] = true
	}
	return nil
}

func validateTrick(trick []game.PlayedCard) error {
	if len(trick) > game.NumSeats {
		return fmt.Errorf("%w: trick has %d cards", ErrBadRequest, len(trick))
	}
	cards := make([]game.Card, len(trick))
	seats := make(map[game.Seat]bool, len(trick))
	for i, pc := range trick {
		if !pc.Seat.Valid() {
			return fmt.Errorf("%w: seat %d out of range", ErrBadRequest, pc.Seat)
		}
		if seats[pc.Seat] {
			return fmt.Errorf("%w: seat %d played twice", ErrBadRequest, pc.Seat)
		}
		seats[pc.Seat] = true
		cards[i] = pc.Card
	}
	return validateCards(cards)
}
