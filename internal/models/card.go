package models

import (
	"fmt"
	"strings"
)

// Suit identifies the suit of a playing card. Jokers carry their own suit.
type Suit string

const (
	SuitClubs    Suit = "clubs"
	SuitDiamonds Suit = "diamonds"
	SuitHearts   Suit = "hearts"
	SuitSpades   Suit = "spades"
	SuitJoker    Suit = "joker"
)

// DeckSize is the number of cards (and board positions) in one shuffle: 52 standard cards plus 2 jokers.
const DeckSize = 54

// Suits lists the four standard suits in board order.
var Suits = []Suit{SuitClubs, SuitDiamonds, SuitHearts, SuitSpades}

// Values lists the standard card values in ascending order.
var Values = []string{"2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "A"}

// JokerValues distinguishes the two jokers in the deck.
var JokerValues = []string{"1", "2"}

// Card is a single playing card drawn from the board
type Card struct {
	Suit  Suit   `bson:"suit" json:"suit"`
	Value string `bson:"value" json:"value"`
}

// QueenOfHearts is the card that ends the game.
var QueenOfHearts = Card{Suit: SuitHearts, Value: "Q"}

// IsJoker reports whether the card is one of the two jokers.
func (c Card) IsJoker() bool {
	return c.Suit == SuitJoker
}

// IsQueenOfHearts reports whether the card ends the game.
func (c Card) IsQueenOfHearts() bool {
	return c == QueenOfHearts
}

// Valid reports whether the card belongs to the 54-card deck.
func (c Card) Valid() bool {
	if c.Suit == SuitJoker {
		return contains(JokerValues, c.Value)
	}
	for _, s := range Suits {
		if s == c.Suit {
			return contains(Values, c.Value)
		}
	}
	return false
}

// String renders the card as a short code such as "QH", "10S" or "JK2".
func (c Card) String() string {
	if c.Suit == SuitJoker {
		return "JK" + c.Value
	}
	if c.Suit == "" {
		return ""
	}
	return c.Value + strings.ToUpper(string(c.Suit)[:1])
}

// ParseCard parses the short code produced by Card.String (case-insensitive).
func ParseCard(code string) (Card, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if strings.HasPrefix(code, "JK") {
		c := Card{Suit: SuitJoker, Value: strings.TrimPrefix(code, "JK")}
		if !c.Valid() {
			return Card{}, fmt.Errorf("invalid joker %q", code)
		}
		return c, nil
	}
	if len(code) < 2 {
		return Card{}, fmt.Errorf("invalid card %q", code)
	}
	var suit Suit
	switch code[len(code)-1] {
	case 'C':
		suit = SuitClubs
	case 'D':
		suit = SuitDiamonds
	case 'H':
		suit = SuitHearts
	case 'S':
		suit = SuitSpades
	default:
		return Card{}, fmt.Errorf("invalid suit in card %q", code)
	}
	c := Card{Suit: suit, Value: code[:len(code)-1]}
	if !c.Valid() {
		return Card{}, fmt.Errorf("invalid value in card %q", code)
	}
	return c, nil
}

// FullDeck returns the static 54-card catalog: every standard card by suit, then both jokers.
func FullDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for _, s := range Suits {
		for _, v := range Values {
			deck = append(deck, Card{Suit: s, Value: v})
		}
	}
	for _, v := range JokerValues {
		deck = append(deck, Card{Suit: SuitJoker, Value: v})
	}
	return deck
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
