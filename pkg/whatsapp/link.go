// Package whatsapp construye enlaces wa.me y normaliza números telefónicos.
package whatsapp

import (
	"net/url"
	"strings"
)

const baseURL = "https://wa.me/"

// DigitsOnly elimina todo lo que no sea dígito ("+58 412-456.63.18" -> "584124566318").
func DigitsOnly(phone string) string {
	var b strings.Builder
	b.Grow(len(phone))
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// EncodeText codifica el texto como componente de URL (espacios como %20, no "+").
func EncodeText(text string) string {
	return strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
}

// DeepLink devuelve https://wa.me/<dígitos>?text=<texto codificado>.
func DeepLink(phone, text string) string {
	link := baseURL + DigitsOnly(phone)
	if text == "" {
		return link
	}
	return link + "?text=" + EncodeText(text)
}
