// Package launch turns an installed version descriptor plus
// per-invocation parameters into a runnable java command line.
package launch

import "strconv"

// Identity is the account the game is started with. The sdk does not
// authenticate, callers bring their own tokens.
type Identity struct {
	Username    string
	UUID        string
	AccessToken string
	// UserType is "msa" for microsoft accounts, "legacy" otherwise
	UserType string
	ClientID string
	XUID     string
}

// Window controls the initial game window
type Window struct {
	Width      int
	Height     int
	Fullscreen bool
}

// Memory sizes the jvm heap in MiB. Zero values mean "not set".
type Memory struct {
	MinMB int
	MaxMB int
}

// QuickPlay jumps straight into a world, server or realm on startup
type QuickPlay struct {
	// Path is the quick play log path, required for any quick play mode
	Path         string
	Singleplayer string
	Multiplayer  string
	Realms       string
}

// Params are the per-invocation launch parameters
type Params struct {
	// GameDir holds saves, options and mods. Defaults to the process
	// working directory when empty.
	GameDir  string
	JavaPath string
	Identity Identity
	Window   Window
	Memory   Memory
	// JvmArgs are emitted before the descriptor's jvm arguments so
	// they can override defaults
	JvmArgs []string
	// GameArgs are appended after the descriptor's game arguments
	GameArgs  []string
	QuickPlay QuickPlay
	Demo      bool
	// Extra feeds the placeholder resolver, consulted after the
	// built-ins and the known parameter aliases
	Extra map[string]string
}

// features maps launch parameters to the feature flags used in
// argument rules
func (p *Params) features() map[string]bool {
	return map[string]bool{
		"has_custom_resolution":        p.Window.Width > 0 && p.Window.Height > 0,
		"is_demo_user":                 p.Demo,
		"has_quick_plays_support":      p.QuickPlay.Path != "",
		"is_quick_play_singleplayer":   p.QuickPlay.Singleplayer != "",
		"is_quick_play_multiplayer":    p.QuickPlay.Multiplayer != "",
		"is_quick_play_realms":         p.QuickPlay.Realms != "",
	}
}

// aliases maps the placeholder names mojang descriptors use to the
// values carried in Params. Unset parameters map to "" and make their
// placeholder unresolvable on purpose.
func (p *Params) aliases(versionName string, versionType string, assetsDir string, assetIndexID string) map[string]string {
	vars := map[string]string{
		"auth_player_name":  p.Identity.Username,
		"version_name":      versionName,
		"game_directory":    p.GameDir,
		"assets_root":       assetsDir,
		"game_assets":       assetsDir,
		"assets_index_name": assetIndexID,
		"auth_uuid":         p.Identity.UUID,
		"auth_access_token": p.Identity.AccessToken,
		"auth_session":      p.Identity.AccessToken,
		"clientid":          p.Identity.ClientID,
		"auth_xuid":         p.Identity.XUID,
		"user_type":         p.Identity.UserType,
		"version_type":      versionType,
		"user_properties":   "{}",

		"quickPlayPath":         p.QuickPlay.Path,
		"quickPlaySingleplayer": p.QuickPlay.Singleplayer,
		"quickPlayMultiplayer":  p.QuickPlay.Multiplayer,
		"quickPlayRealms":       p.QuickPlay.Realms,
	}
	if p.Window.Width > 0 {
		vars["resolution_width"] = strconv.Itoa(p.Window.Width)
	}
	if p.Window.Height > 0 {
		vars["resolution_height"] = strconv.Itoa(p.Window.Height)
	}
	return vars
}
