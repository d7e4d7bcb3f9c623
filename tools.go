package simcb

import (
	"io"
	"io/fs"
	"os"

	"github.com/ZenLiuCN/fn"
)

// CopyFile from src to dest with optional src file info
func CopyFile(src string, dest string, si fs.FileInfo) (err error) {
	sf, err := os.Open(src)
	if err != nil {
		return err
	}
	defer fn.IgnoreClose(sf)
	df, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer fn.IgnoreClose(df)
	_, err = io.Copy(df, sf)
	if err == nil {
		if si == nil {
			si, err = os.Stat(src)
			if err != nil {
				return
			}
		}
		err = os.Chmod(dest, si.Mode())
	}
	return
}
