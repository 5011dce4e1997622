// Package container is a small named-token dependency container.
//
// Services ask for their collaborators by token instead of building them:
//
//	container.Singleton("db.shop.write", func() (any, error) {
//	    return manager.Get(context.Background(), database.ShopWrite)
//	})
//	shop := container.MustMake[*gorm.DB]("db.shop.write")
package container

import (
	"fmt"
	"sync"
)

// Factory produces a service instance.
type Factory func() (any, error)

type binding struct {
	factory   Factory
	singleton bool

	mu       sync.Mutex
	instance any
	resolved bool
}

var (
	mu       sync.RWMutex
	bindings = map[string]*binding{}
)

// Bind registers a factory under key. Every Make calls it again.
func Bind(key string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()
	bindings[key] = &binding{factory: factory}
}

// Singleton registers a factory whose first successful result is cached.
// A failing factory is retried on the next Make.
func Singleton(key string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()
	bindings[key] = &binding{factory: factory, singleton: true}
}

// Instance registers an already-built value.
func Instance(key string, value any) {
	mu.Lock()
	defer mu.Unlock()
	bindings[key] = &binding{singleton: true, instance: value, resolved: true}
}

// Resolve returns the service registered under key.
func Resolve(key string) (any, error) {
	mu.RLock()
	b, ok := bindings[key]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("container: unknown binding %q", key)
	}

	if !b.singleton {
		return b.factory()
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.resolved {
		return b.instance, nil
	}

	instance, err := b.factory()
	if err != nil {
		return nil, fmt.Errorf("container: resolve %q: %w", key, err)
	}
	b.instance = instance
	b.resolved = true
	return instance, nil
}

// Make is Resolve for wiring code; it panics on failure.
func Make(key string) any {
	v, err := Resolve(key)
	if err != nil {
		panic(err)
	}
	return v
}

// MakeAs resolves key and asserts its type.
func MakeAs[T any](key string) (T, error) {
	var zero T
	v, err := Resolve(key)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("container: binding %q is %T, not %T", key, v, zero)
	}
	return t, nil
}

// MustMake is MakeAs that panics.
func MustMake[T any](key string) T {
	t, err := MakeAs[T](key)
	if err != nil {
		panic(err)
	}
	return t
}

// Has reports whether key has been bound.
func Has(key string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := bindings[key]
	return ok
}

// Reset drops every binding.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	bindings = map[string]*binding{}
}
