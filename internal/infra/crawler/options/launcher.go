package options

import (
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
)

type LauncherOption func(*launcher.Launcher)

// CreateLauncher 创建rod启动器,userMode为true时复用本机已安装的浏览器与用户数据
func CreateLauncher(userMode bool, opts ...LauncherOption) *launcher.Launcher {
	var l *launcher.Launcher
	if userMode {
		l = launcher.NewUserMode()
	} else {
		l = launcher.New()
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func WithBin(bin string) LauncherOption {
	return func(l *launcher.Launcher) {
		if bin != "" {
			l.Bin(bin)
		}
	}
}

func WithUserDataDir(dir string) LauncherOption {
	return func(l *launcher.Launcher) {
		if dir != "" {
			l.UserDataDir(dir)
		}
	}
}

func WithHeadless(headless bool) LauncherOption {
	return func(l *launcher.Launcher) {
		l.Headless(headless)
	}
}

func WithNoSandbox(noSandbox bool) LauncherOption {
	return func(l *launcher.Launcher) {
		l.NoSandbox(noSandbox)
	}
}

func WithLeakless(leakless bool) LauncherOption {
	return func(l *launcher.Launcher) {
		l.Leakless(leakless)
	}
}

func WithUserAgent(userAgent string) LauncherOption {
	return func(l *launcher.Launcher) {
		if userAgent != "" {
			l.Set(flags.Flag("user-agent"), userAgent)
		}
	}
}

// WithArgs 追加不带值的浏览器启动参数,如 disable-gpu
func WithArgs(args ...string) LauncherOption {
	return func(l *launcher.Launcher) {
		for _, arg := range args {
			if arg != "" {
				l.Set(flags.Flag(arg))
			}
		}
	}
}
