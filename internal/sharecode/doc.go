// Package sharecode implements matching and extraction of share codes from
// join URLs. A share code is a 6-character alphanumeric token embedded in
// paths of the form /join/<code>, matched case-insensitively and normalized
// to upper case.
package sharecode
