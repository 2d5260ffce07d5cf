//go:build !linux

package indicator

func detect(Colors) Light { return nil }
