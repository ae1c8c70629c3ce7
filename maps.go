package main

import (
	"encoding/json"
	"os"
)

// LoadMapFile reads a serialized map record from disk.
func LoadMapFile(path string) (*Level, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var data MapData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return NewLevel(data), nil
}

// LobbyMap is the open waiting area players walk around in between rounds.
// It carries no geometry, so movement and visibility pass through.
func LobbyMap() *Level {
	return NewLevel(MapData{
		Title:  "Lobby",
		Width:  1280,
		Height: 720,
		StartX: 608,
		StartY: 328,
	})
}

// rect builds the serialized vertex list for a rectangular wall.
func rect(x, y, w, h float64) []MapPoint {
	return []MapPoint{
		{X: x, Y: y},
		{X: x + w, Y: y},
		{X: x + w, Y: y + h},
		{X: x, Y: y + h},
	}
}

// WarehouseMap is the default play map: an enclosed 1280x1280 floor with
// rectangular crates and wall spurs for hiders to break line of sight.
// All obstacles are convex.
func WarehouseMap() *Level {
	return NewLevel(MapData{
		Title:  "Warehouse",
		Width:  1280,
		Height: 1280,
		StartX: 96,
		StartY: 96,
		Polygons: [][]MapPoint{
			// Outer walls
			rect(0, 0, 1280, 32),
			rect(0, 1248, 1280, 32),
			rect(0, 32, 32, 1216),
			rect(1248, 32, 32, 1216),
			// Crates
			rect(288, 224, 160, 160),
			rect(800, 160, 192, 96),
			rect(576, 480, 160, 320),
			rect(224, 736, 96, 192),
			rect(896, 640, 160, 160),
			rect(416, 1024, 288, 96),
			rect(1024, 960, 96, 192),
			// Wall spurs off the perimeter
			rect(32, 448, 256, 32),
			rect(992, 384, 256, 32),
			rect(672, 1152, 32, 96),
		},
	})
}
