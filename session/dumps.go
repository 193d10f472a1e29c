package session

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/nvr-ai/go-memimg/common"
)

// DumpTimeLayout names quick dumps by day, month and time of day.
const DumpTimeLayout = "02_01__15_04_05"

// DumpPath returns the file a quick dump taken at now should be written to.
// If the timestamped name exists, "(1)", "(2)" and so on are appended before the
// extension until a free name is found.
//
// Arguments:
//   - folder: The dump folder.
//   - now: The time of the dump.
//   - ext: The file extension including the dot, e.g. ".png".
//
// Returns:
//   - string: A path that did not exist when checked.
func DumpPath(folder string, now time.Time, ext string) string {
	stem := now.Format(DumpTimeLayout)
	path := filepath.Join(folder, stem+ext)
	for i := 1; exists(path); i++ {
		path = filepath.Join(folder, stem+"("+strconv.Itoa(i)+")"+ext)
	}
	return path
}

// NamedDumpPath returns the path for a dump the user named. The extension is
// appended unless name already ends with it.
func NamedDumpPath(folder, name, ext string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || name != filepath.Base(name) {
		return "", errors.Errorf("invalid dump name %q", name)
	}
	if !strings.EqualFold(filepath.Ext(name), ext) {
		name += ext
	}
	return filepath.Join(folder, name), nil
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// DumpFile is an image found in the dump folder.
type DumpFile struct {
	// Path is the path to the image file.
	Path string
	// Size is the file size in bytes.
	Size int64
	// ModTime is the last modification time.
	ModTime time.Time
}

// dumpExts are the extensions ListDumps recognises.
var dumpExts = map[string]bool{
	".png": true, ".bmp": true, ".tif": true, ".tiff": true, ".webp": true, ".jpg": true, ".jpeg": true,
}

// ListDumps lists the images in folder, oldest first. Subdirectories and other
// files are ignored.
//
// Arguments:
//   - folder: The dump folder.
//
// Returns:
//   - []DumpFile: The images found.
//   - error: ErrIoFailure if the folder cannot be read.
func ListDumps(folder string) ([]DumpFile, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, common.NewPathError(common.ErrIoFailure, "readdir", folder, err)
	}

	var dumps []DumpFile
	for _, e := range entries {
		if e.IsDir() || !dumpExts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		dumps = append(dumps, DumpFile{
			Path:    filepath.Join(folder, e.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(dumps, func(i, j int) bool {
		if dumps[i].ModTime.Equal(dumps[j].ModTime) {
			return dumps[i].Path < dumps[j].Path
		}
		return dumps[i].ModTime.Before(dumps[j].ModTime)
	})
	return dumps, nil
}
