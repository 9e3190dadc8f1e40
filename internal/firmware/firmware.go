package firmware

import (
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mholt/archiver/v3"
	"github.com/sirupsen/logrus"
)

var (
	ErrValidation    = errors.New("failed to validate firmware image")
	ErrNoImage       = errors.New("no firmware image found")
	ErrMultipleImage = errors.New("more than one firmware image found")
)

var archiveSuffixes = []string{".zip", ".tar.gz", ".tgz", ".tar", ".tar.xz", ".tar.bz2"}

type Config struct {
	// ImagePath is a firmware file, a directory holding one, or an archive.
	ImagePath        string
	// Extension is the image extension the flashing tool expects (.bin, .hex).
	Extension        string
	// WorkingDirectory receives extracted archives.
	WorkingDirectory string
	Logger           *logrus.Logger
}

type Image struct {
	imagePath        string
	extension        string
	workingDirectory string
	path             string
	logger           *logrus.Logger
}

func New(config *Config) *Image {
	return &Image{
		imagePath:        config.ImagePath,
		extension:        strings.ToLower(config.Extension),
		workingDirectory: config.WorkingDirectory,
		logger:           config.Logger,
	}
}

// IsArchive reports whether path names an archive that Resolve will extract.
func IsArchive(path string) bool {
	lower := strings.ToLower(path)
	for _, suffix := range archiveSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}

// Resolve returns the file to hand to the flashing tool. Plain files are
// returned exactly as configured.
func (i *Image) Resolve() (string, error) {
	if i.path != "" {
		return i.path, nil
	}
	info, err := os.Stat(i.imagePath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrValidation, err)
	}

	var path string
	switch {
	case info.IsDir():
		path, err = i.discover(i.imagePath)
	case IsArchive(i.imagePath):
		path, err = i.extract()
	default:
		path = i.imagePath
	}
	if err != nil {
		return "", err
	}
	i.path = path
	return path, nil
}

func (i *Image) extract() (string, error) {
	if i.workingDirectory == "" {
		return "", fmt.Errorf("%w: no working directory to extract %v", ErrValidation, i.imagePath)
	}
	i.logger.WithFields(logrus.Fields{
		"imagePath":        i.imagePath,
		"workingDirectory": i.workingDirectory,
	}).Info("extracting firmware archive")
	err := archiver.Unarchive(i.imagePath, i.workingDirectory)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return i.discover(i.workingDirectory)
}

// discover walks dir for files ending in the expected extension. Release
// archives nest images one or two levels deep, so the whole tree is searched.
func (i *Image) discover(dir string) (string, error) {
	var found []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || strings.HasPrefix(info.Name(), ".") {
			return nil
		}
		if i.extension == "" || strings.EqualFold(filepath.Ext(info.Name()), i.extension) {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	sort.Strings(found)

	switch len(found) {
	case 0:
		return "", fmt.Errorf("%w: no %v file in %v", ErrNoImage, i.extension, dir)
	case 1:
		i.logger.WithField("image", found[0]).Debug("discovered firmware image")
		return found[0], nil
	}
	return "", fmt.Errorf("%w in %v: %v", ErrMultipleImage, dir, strings.Join(found, ", "))
}

// TempWorkingDirectory creates a directory for extracted archives. The caller
// removes it.
func TempWorkingDirectory(usage string) (string, error) {
	return ioutil.TempDir("", fmt.Sprintf("flash-external-%v", usage))
}
