// Package version looks up the latest release and tells the user when they are behind.
package version

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/metafates/gache"
	"github.com/watchroom/watchroom/constant"
	"github.com/watchroom/watchroom/filesystem"
	"github.com/watchroom/watchroom/network"
	"github.com/watchroom/watchroom/util"
	"github.com/watchroom/watchroom/where"
)

var versionCacher = gache.New[string](&gache.Options{
	Path:       filepath.Join(where.Cache(), "version.json"),
	Lifetime:   time.Hour * 24 * 2,
	FileSystem: &filesystem.GacheFs{},
})

var releaseURL = fmt.Sprintf("https://api.github.com/repos/%s/releases/latest", constant.Repository)

// Latest returns the newest released version without its "v" prefix. Answers are cached
// for two days.
func Latest() (version string, err error) {
	ver, expired, err := versionCacher.Get()
	if err != nil {
		return "", err
	}

	if !expired && ver != "" {
		return ver, nil
	}

	resp, err := network.Client.Get(releaseURL)
	if err != nil {
		return
	}

	defer util.Ignore(resp.Body.Close)

	var release struct {
		TagName string `json:"tag_name"`
	}

	if err = json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return
	}

	if release.TagName == "" {
		err = errors.New("empty tag name")
		return
	}

	version = strings.TrimPrefix(release.TagName, "v")
	_ = versionCacher.Set(version)
	return
}
