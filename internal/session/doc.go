// Package session holds the live state of one polyorbit run: the orbital
// system, its trigger bindings, speed and sustain settings, the viewport
// and the running/editing mode.
//
// A Session is not safe for concurrent use. It is driven from a single
// render loop; only the audio backend it talks to runs on another thread.
package session
