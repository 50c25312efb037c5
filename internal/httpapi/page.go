package httpapi

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/DoyleJ11/arena-spectator/internal/render"
	"github.com/DoyleJ11/arena-spectator/pkg/types"
)

type legendItem struct {
	Label string
	Color string
}

var legend = []legendItem{
	{Label: "Bigger Bullet", Color: itemHex(types.ItemBiggerBullet)},
	{Label: "Faster Bullet", Color: itemHex(types.ItemFasterBullet)},
	{Label: "More Bullet", Color: itemHex(types.ItemMoreBullet)},
}

var statusColors = map[string]string{
	"connecting":   "gray",
	"connected":    "white",
	"disconnected": "orange",
	"error":        "red",
}

func itemHex(t types.ItemType) string {
	c, _ := render.ItemColor(t)
	return hexColor(c)
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func statusColor(s string) string {
	if c, ok := statusColors[s]; ok {
		return c
	}
	return "gray"
}

func padRight(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return s + strings.Repeat(" ", n-len(s))
}
