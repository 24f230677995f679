package main

import (
	"log"

	"github.com/Salsakeyy/EnzoChess/internal/engine"
	"github.com/Salsakeyy/EnzoChess/internal/storage"
	"github.com/Salsakeyy/EnzoChess/internal/uci"
)

func main() {
	eng := engine.NewEngine()
	protocol := uci.New(eng)

	// Stored preferences seed the option defaults; a missing database
	// is not fatal for a protocol adapter.
	if store, err := storage.Open(); err == nil {
		defer store.Close()
		if prefs, err := store.LoadPreferences(); err == nil {
			protocol.ApplyPreferences(prefs)
		}
	} else {
		log.Printf("preferences unavailable: %v", err)
	}

	protocol.Run()
}
