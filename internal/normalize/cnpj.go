package normalize

import "strings"

// PadCNPJ left-zero-pads a tax id to the canonical 14 digits. Registry files
// sometimes carry unpadded ids; padding makes the supplier join key stable.
func PadCNPJ(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 14 {
		return s
	}
	return strings.Repeat("0", 14-len(s)) + s
}

// FormatCNPJ renders a tax id as NN.NNN.NNN/NNNN-NN, zero-padding short
// inputs. Nil or empty → "N/A".
func FormatCNPJ(cnpj *string) string {
	if cnpj == nil || strings.TrimSpace(*cnpj) == "" {
		return "N/A"
	}
	s := PadCNPJ(*cnpj)
	return s[:2] + "." + s[2:5] + "." + s[5:8] + "/" + s[8:12] + "-" + s[12:14]
}
