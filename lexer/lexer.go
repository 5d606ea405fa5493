// SPDX-License-Identifier: MIT
package lexer

// REF: https://github.com/sh4t/sql-parser
// REF: https://gitlab.com/fisherprime/go-ddbms/-/blob/master/internal/v1/lexer.go

import (
	"context"
	"errors"
	"fmt"
	"io"
	"unicode"
	"unicode/utf8"
)

type (
	// NextOperation type for the next function to be executed.
	NextOperation func(context.Context) NextOperation

	// Lexer tokenizes a serialized tree shape.
	Lexer struct {
		cfg *Config

		// c is a channel for communicating lexed Items.
		c chan Item

		// buffer holds the runes of the value being lexed.
		buffer []rune

		// pending holds a rune read ahead of the current token.
		pending     rune
		pendingSize int
		hasPending  bool

		// pos is the byte offset of the next rune.
		pos      int
		tokenPos int

		valueCounter int
		endCounter   int
	}
)

const (
	defBufferSize = 16
)

// Lexing errors.
var (
	ErrUnknownToken    = errors.New("unknown token")
	ErrInvalidEncoding = fmt.Errorf("%w: invalid UTF-8", ErrUnknownToken)
)

// Improves on performance compared to ORs.
var whitespace = [256]bool{
	' ':  true,
	'\t': true,
	'\r': true,
	'\n': true,
}

// New instantiates a Lexer.
func New(opts ...Option) *Lexer {
	return &Lexer{
		cfg:    NewConfig(opts...),
		c:      make(chan Item, defBufferSize),
		buffer: make([]rune, 0, defBufferSize),
	}
}

// Config retrieves the Lexer's Config.
func (l *Lexer) Config() *Config { return l.cfg }

// ValueCounter obtains the number of values lexed.
func (l *Lexer) ValueCounter() int { return l.valueCounter }

// EndCounter obtains the number of end markers lexed.
func (l *Lexer) EndCounter() int { return l.endCounter }

// Item returns a lexed Item, ok is false once the Lexer is done.
func (l *Lexer) Item() (i Item, ok bool) {
	i, ok = <-l.c
	return
}

// Lex lexes the source by executing state functions, closing the Item channel when done.
//
// The last Item is either an ItemEOF or an ItemError.
func (l *Lexer) Lex(ctx context.Context) {
	defer close(l.c)

	for state := l.LexWhitespace; state != nil; {
		state = state(ctx)
	}
}

// LexWhitespace skips whitespace & lexes structural runes.
func (l *Lexer) LexWhitespace(ctx context.Context) NextOperation {
	for {
		l.tokenPos = l.pos

		r, _, err := l.next()
		if err != nil {
			l.emitError(ctx, err)
			return nil
		}

		switch {
		case IsWhitespace(r):
			continue
		case r == l.cfg.EndMarker:
			l.endCounter++
			if !l.emit(ctx, ItemEndMarker, string(r)) {
				return nil
			}
		case r == l.cfg.Splitter:
			if !l.emit(ctx, ItemSplitter, string(r)) {
				return nil
			}
		case l.cfg.IsValueRune(r):
			l.buffer = append(l.buffer[:0], r)
			return l.LexValue
		default:
			l.emitError(ctx, fmt.Errorf("%w: %q at %d", ErrUnknownToken, r, l.tokenPos))
			return nil
		}
	}
}

// LexValue lexes a node key.
func (l *Lexer) LexValue(ctx context.Context) NextOperation {
	for {
		r, size, err := l.next()
		if err != nil && !errors.Is(err, io.EOF) {
			l.emitError(ctx, err)
			return nil
		}

		if err == nil && l.cfg.IsValueRune(r) {
			l.buffer = append(l.buffer, r)
			continue
		}

		l.valueCounter++
		if !l.emit(ctx, ItemValue, string(l.buffer)) {
			return nil
		}

		if err != nil {
			l.emitError(ctx, err)
			return nil
		}

		l.backup(r, size)

		return l.LexWhitespace
	}
}

// next reads the next rune, io.EOF at the end of the source.
//
// Invalid UTF-8 fails with ErrInvalidEncoding.
func (l *Lexer) next() (r rune, size int, err error) {
	if l.hasPending {
		r, size, l.hasPending = l.pending, l.pendingSize, false
	} else if r, size, err = l.cfg.Source.ReadRune(); err != nil {
		return
	}

	if r == utf8.RuneError && size == 1 {
		err = fmt.Errorf("%w at %d", ErrInvalidEncoding, l.pos)
		return
	}
	l.pos += size

	return
}

// backup un-reads a rune.
func (l *Lexer) backup(r rune, size int) {
	l.pending, l.pendingSize, l.hasPending = r, size, true
	l.pos -= size
}

// emit sends an Item over the communication channel, false on context cancellation.
func (l *Lexer) emit(ctx context.Context, id ItemID, val string) bool {
	if l.cfg.Debug {
		l.cfg.Logger.Debugf("lexer emit %s: %q", id, val)
	}

	select {
	case <-ctx.Done():
		return false
	case l.c <- Item{ID: id, Val: val, Pos: l.tokenPos}:
		return true
	}
}

// emitError terminates the scan with an ItemEOF for io.EOF, an ItemError otherwise.
func (l *Lexer) emitError(ctx context.Context, err error) {
	item := Item{ID: ItemEOF, Pos: l.pos}
	if !errors.Is(err, io.EOF) {
		item = Item{ID: ItemError, Pos: l.pos, Err: err}
	}

	select {
	case <-ctx.Done():
	case l.c <- item:
	}
}

// IsValueRune checks whether a rune may appear in a node key.
func (c *Config) IsValueRune(r rune) bool {
	return !IsWhitespace(r) && !c.IsMarker(r) && unicode.IsPrint(r)
}

// IsWhitespace return true for whitespace, newline & carriage return.
func IsWhitespace(r rune) bool { return r < 256 && whitespace[r] }
