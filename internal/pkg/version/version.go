package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// 構建時通過 -ldflags 注入，未注入時從模塊的 VCS 信息補全
var (
	Version   = "dev"
	BuildTime = ""
	GitCommit = ""
)

func init() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	fillFromBuildInfo(info)
}

func fillFromBuildInfo(info *debug.BuildInfo) {
	if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = trimV(info.Main.Version)
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if GitCommit == "" && len(s.Value) >= 8 {
				GitCommit = s.Value[:8]
			}
		case "vcs.time":
			if BuildTime == "" {
				BuildTime = s.Value
			}
		}
	}
}

func trimV(v string) string {
	if len(v) > 1 && v[0] == 'v' {
		return v[1:]
	}
	return v
}

func Short() string {
	if GitCommit != "" {
		return fmt.Sprintf("v%s (%s)", Version, GitCommit)
	}
	return "v" + Version
}

// UserAgent 發往 Zabbix 的 User-Agent，例如 zstatus/1.2.0
func UserAgent(product string) string {
	if product == "" {
		product = "zstatus"
	}
	return product + "/" + Version
}

func Info() string {
	return fmt.Sprintf(
		"zstatus v%s\nBuild Time: %s\nGo Version: %s %s/%s\nGit Commit: %s",
		Version, BuildTime, runtime.Version(), runtime.GOOS, runtime.GOARCH, GitCommit,
	)
}
