//go:build !linux && !darwin

package scanner

import "os"

func statExtra(info os.FileInfo) (changed, accessed *float64) {
	return nil, nil
}
