package parser

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestConcurrentParsing runs more parses than there are parsers and checks
// that the pool never grows past its size.
func TestConcurrentParsing(t *testing.T) {
	const poolSize = 4
	manager := NewParserManagerWithPoolSize(testLogger(), poolSize)
	defer manager.Close()

	const numGoroutines = 100
	var wg sync.WaitGroup
	wg.Add(numGoroutines)
	errChan := make(chan error, numGoroutines)
	start := make(chan struct{})

	sources := [][]byte{
		[]byte("class C { int M() => 1; }"),
		[]byte("namespace N { record R(int X); }"),
		[]byte("namespace N { interface I { void M(); } }"),
	}
	for i := 0; i < numGoroutines; i++ {
		go func(i int) {
			defer wg.Done()
			<-start

			tree, err := manager.ParseFile(sources[i%len(sources)], "C.cs")
			if err != nil {
				errChan <- err
				return
			}
			if tree.RootNode().HasError() {
				errChan <- assert.AnError
			}
			tree.Close()
		}(i)
	}

	close(start)
	wg.Wait()
	close(errChan)

	for err := range errChan {
		t.Error(err)
	}

	stats := manager.GetStats()
	assert.LessOrEqual(t, stats.ParsersCreated, poolSize)
	assert.GreaterOrEqual(t, stats.ParsersCreated, 1)
	assert.Equal(t, numGoroutines, stats.ParsesCalled)
	assert.Zero(t, stats.ParseErrors)
}

// TestCloseDuringParses closes the manager while parses are in flight.
// Every parse either succeeds or fails with ErrClosed.
func TestCloseDuringParses(t *testing.T) {
	manager := NewParserManagerWithPoolSize(testLogger(), 2)

	const numGoroutines = 20
	var wg sync.WaitGroup
	wg.Add(numGoroutines)
	errChan := make(chan error, numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			tree, err := manager.Parse([]byte("class C { }"))
			if err != nil {
				errChan <- err
				return
			}
			tree.Close()
		}()
	}
	manager.Close()
	wg.Wait()
	close(errChan)

	for err := range errChan {
		assert.ErrorIs(t, err, ErrClosed)
	}
}

// TestRaceConditions mixes parses with stats reads.
// Run with: go test -race ./pkg/parser
func TestRaceConditions(t *testing.T) {
	manager := NewParserManager(testLogger())
	defer manager.Close()

	const numGoroutines = 100
	var wg sync.WaitGroup
	wg.Add(numGoroutines * 2)

	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			tree, err := manager.Parse([]byte("class C { }"))
			if err == nil {
				tree.Close()
			}
		}()
		go func() {
			defer wg.Done()
			_ = manager.GetStats()
		}()
	}

	wg.Wait()
}

func BenchmarkConcurrentParsing(b *testing.B) {
	manager := NewParserManager(testLogger())
	defer manager.Close()

	source := []byte("class C { int M(int x) { return x * 2; } }")

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			tree, err := manager.Parse(source)
			if err != nil {
				b.Fatal(err)
			}
			tree.Close()
		}
	})
}
