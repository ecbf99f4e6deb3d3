// Package cache provides the bounded LRU cache that keeps rendered graph
// tiles between renders.
//
//	tiles := cache.New[key, *buffer.Buffer](256)
//	tiles.Set(k, tile)
//	tile, ok := tiles.Get(k)
//
// Cache is safe for concurrent use and must not be copied after creation.
package cache
