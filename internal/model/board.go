package model

import "fmt"

type PieceType string

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

func (p PieceType) getPieceNotation() string {
	switch p {
	case King:
		return "K"
	case Queen:
		return "Q"
	case Rook:
		return "R"
	case Bishop:
		return "B"
	case Knight:
		return "N"
	case Pawn:
		return ""
	}
	return ""
}

type Color string

const (
	White Color = "white"
	Black Color = "black"
)

func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

// Position is a board coordinate. X is the file (0 = a-file), Y is the rank
// index (0 = black's back rank, 7 = white's back rank).
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Position) onBoard() bool {
	return p.X >= 0 && p.X < 8 && p.Y >= 0 && p.Y < 8
}

func (p Position) getSquareNotation() string {
	return fmt.Sprintf("%c%d", p.X+97, 8-p.Y)
}

func (p Position) getFileNotation() string {
	return fmt.Sprintf("%c", p.X+97)
}

type Piece struct {
	Type     PieceType `json:"type"`
	Color    Color     `json:"color"`
	Position Position  `json:"position"`
	HasMoved bool      `json:"hasMoved"`
}

// Board holds at most one piece per square, indexed [y][x]. A piece's
// Position always matches the square it sits on.
type Board struct {
	Squares [8][8]*Piece `json:"squares"`
}

func (b *Board) At(pos Position) *Piece {
	return b.Squares[pos.Y][pos.X]
}

// Clone deep-copies every piece so the legality filter and the search can
// mutate the copy without touching the live board.
func (b *Board) Clone() *Board {
	clone := &Board{}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if piece := b.Squares[y][x]; piece != nil {
				copied := *piece
				clone.Squares[y][x] = &copied
			}
		}
	}
	return clone
}

// ApplyMove relocates the piece on from to to, replacing whatever sits on the
// destination. A pawn reaching the far rank becomes a queen. Move execution,
// the legality filter and the search all go through here.
func (b *Board) ApplyMove(from, to Position) {
	piece := b.At(from)
	if piece == nil {
		return
	}
	b.Squares[to.Y][to.X] = piece
	b.Squares[from.Y][from.X] = nil
	piece.Position = to
	piece.HasMoved = true
	if piece.Type == Pawn && to.Y == promotionRank(piece.Color) {
		piece.Type = Queen
	}
}

func promotionRank(color Color) int {
	if color == White {
		return 0
	}
	return 7
}

func (b *Board) findKing(color Color) (Position, bool) {
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			piece := b.Squares[y][x]
			if piece != nil && piece.Type == King && piece.Color == color {
				return piece.Position, true
			}
		}
	}
	return Position{}, false
}

func (b *Board) pieces(color Color) []*Piece {
	pieces := []*Piece{}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if piece := b.Squares[y][x]; piece != nil && piece.Color == color {
				pieces = append(pieces, piece)
			}
		}
	}
	return pieces
}

var backRankOrder = [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

func NewBoard() *Board {
	board := &Board{}
	for x := 0; x < 8; x++ {
		board.Squares[0][x] = &Piece{Type: backRankOrder[x], Color: Black, Position: Position{X: x, Y: 0}}
		board.Squares[1][x] = &Piece{Type: Pawn, Color: Black, Position: Position{X: x, Y: 1}}
		board.Squares[6][x] = &Piece{Type: Pawn, Color: White, Position: Position{X: x, Y: 6}}
		board.Squares[7][x] = &Piece{Type: backRankOrder[x], Color: White, Position: Position{X: x, Y: 7}}
	}
	return board
}
