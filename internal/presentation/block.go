package presentation

import (
	"fmt"
	"log"
)

// Block is the outcome of one visual: either a value or the message shown
// in its place.
type Block[T any] struct {
	Name  string
	Value T
	Err   string
}

func (b Block[T]) OK() bool {
	return b.Err == ""
}

// Run computes one block. Errors and panics are turned into the block's
// message so that other blocks still render.
func Run[T any](name string, fn func() (T, error)) (b Block[T]) {
	b.Name = name
	defer func() {
		if r := recover(); r != nil {
			log.Printf("presentation: %s panicked: %v", name, r)
			var zero T
			b.Value = zero
			b.Err = fmt.Sprintf("Error rendering %s: %v", name, r)
		}
	}()

	v, err := fn()
	if err != nil {
		log.Printf("presentation: %s failed: %v", name, err)
		b.Err = fmt.Sprintf("Error rendering %s: %v", name, err)
		return b
	}
	b.Value = v
	return b
}

// Then derives a block from another one. A failed source is passed on as is,
// so dependent visuals show the original message.
func Then[T, U any](name string, src Block[T], fn func(T) (U, error)) Block[U] {
	if !src.OK() {
		return Block[U]{Name: name, Err: src.Err}
	}
	return Run(name, func() (U, error) { return fn(src.Value) })
}
