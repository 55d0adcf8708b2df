package config

const (
	defaultStaticDir       = "public"
	defaultOutputDir       = "out"
	defaultLogDir          = "~/.local/share/reelcaption/logs"
	defaultAPIBind         = "127.0.0.1:7491"
	defaultFPS             = 30
	defaultWidth           = 1080
	defaultHeight          = 1920
	defaultIntroFrames     = 60
	defaultAudioTrack      = "audio.mp3"
	defaultAudioFadeFrames = 300
	defaultAudioMaxVolume  = 0.4
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StaticDir: defaultStaticDir,
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
			APIBind:   defaultAPIBind,
		},
		Composition: Composition{
			FPS:             defaultFPS,
			Width:           defaultWidth,
			Height:          defaultHeight,
			IntroFrames:     defaultIntroFrames,
			AudioTrack:      defaultAudioTrack,
			AudioFadeFrames: defaultAudioFadeFrames,
			AudioMaxVolume:  defaultAudioMaxVolume,
		},
		Probe: Probe{
			FFprobeBinary: "ffprobe",
		},
		Transcript: Transcript{
			Watch: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
