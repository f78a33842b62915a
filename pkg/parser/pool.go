package parser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	ts "github.com/tree-sitter/go-tree-sitter"
)

// ErrClosed is returned by parses started after Close.
var ErrClosed = errors.New("parser manager closed")

// parserPool hands out C# parsers to concurrent parses.
//
// Parsers are created lazily up to capacity. Once every parser is checked
// out, get waits for one to be put back or for the caller's context to end.
// The mutex guards created, waits and closed, and serializes put against
// close so that nothing is ever sent on the closed idle channel.
type parserPool struct {
	idle     chan *ts.Parser
	language *ts.Language
	capacity int

	mu      sync.Mutex
	created int
	waits   int
	closed  bool

	logger *slog.Logger
}

func newParserPool(language *ts.Language, capacity int, logger *slog.Logger) *parserPool {
	return &parserPool{
		idle:     make(chan *ts.Parser, capacity),
		language: language,
		capacity: capacity,
		logger:   logger,
	}
}

// get checks out a parser. The caller must put it back.
func (p *parserPool) get(ctx context.Context) (*ts.Parser, error) {
	select {
	case parser, ok := <-p.idle:
		if !ok {
			return nil, ErrClosed
		}
		return parser, nil
	default:
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrClosed
	}
	if p.created < p.capacity {
		p.created++
		created := p.created
		p.mu.Unlock()

		parser, err := p.newParser()
		if err != nil {
			p.mu.Lock()
			p.created--
			p.mu.Unlock()
			return nil, err
		}
		p.logger.Debug("created C# parser", "pool_size", created, "capacity", p.capacity)
		return parser, nil
	}
	p.waits++
	p.mu.Unlock()

	select {
	case parser, ok := <-p.idle:
		if !ok {
			return nil, ErrClosed
		}
		return parser, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (p *parserPool) newParser() (*ts.Parser, error) {
	parser := ts.NewParser()
	if parser == nil {
		return nil, fmt.Errorf("failed to create parser")
	}
	if err := parser.SetLanguage(p.language); err != nil {
		parser.Close()
		return nil, fmt.Errorf("failed to set C# grammar: %w", err)
	}
	return parser, nil
}

// put returns a parser. After close the parser is freed instead.
func (p *parserPool) put(parser *ts.Parser) {
	if parser == nil {
		return
	}
	parser.Reset()

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		parser.Close()
		return
	}
	select {
	case p.idle <- parser:
	default:
		parser.Close()
		p.created--
		p.logger.Warn("parser returned to a full pool, closing it")
	}
}

// close frees the idle parsers. Parsers still checked out are freed when
// they are put back.
func (p *parserPool) close() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return 0
	}
	p.closed = true
	close(p.idle)

	freed := 0
	for parser := range p.idle {
		parser.Close()
		freed++
	}
	return freed
}

func (p *parserPool) stats() (created, waits int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.created, p.waits
}
