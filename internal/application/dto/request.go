package dto

import "strings"

// ParseSymbolsParam divide el parámetro symbols por comas.
// La normalización y validación contra el universo ocurren en el servicio.
func ParseSymbolsParam(param string) []string {
	if strings.TrimSpace(param) == "" {
		return nil
	}
	parts := strings.Split(param, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
