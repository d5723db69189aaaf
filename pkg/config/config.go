package config

// Config is the complete installer configuration
type Config struct {
	DryRun       bool         `koanf:"dry_run" toml:"dry_run"`
	Repository   Repository   `koanf:"repository" toml:"repository"`
	Paths        Paths        `koanf:"paths" toml:"paths"`
	Command      Command      `koanf:"command" toml:"command"`
	Dependencies Dependencies `koanf:"dependencies" toml:"dependencies"`
	Deploy       Deploy       `koanf:"deploy" toml:"deploy"`
	Scripts      []Script     `koanf:"scripts" toml:"scripts"`
	Finalize     Finalize     `koanf:"finalize" toml:"finalize"`
	Uninstall    Uninstall    `koanf:"uninstall" toml:"uninstall"`
}

// Repository is the configuration source that gets cloned
type Repository struct {
	URL   string `koanf:"url" toml:"url"`
	Depth int    `koanf:"depth" toml:"depth"`
}

// Paths holds the base directory overrides
type Paths struct {
	ConfigDir    string `koanf:"config_dir" toml:"config_dir"`
	HomeDir      string `koanf:"home_dir" toml:"home_dir"`
	DistroMarker string `koanf:"distro_marker" toml:"distro_marker"`
}

// Command describes the globally installed copy of the installer
type Command struct {
	Name       string `koanf:"name" toml:"name"`
	InstallDir string `koanf:"install_dir" toml:"install_dir"`
	Source     string `koanf:"source" toml:"source"`
}

// Dependencies drives the package helper resolution and package installation
type Dependencies struct {
	Helpers           []string `koanf:"helpers" toml:"helpers"`
	BootstrapHelper   string   `koanf:"bootstrap_helper" toml:"bootstrap_helper"`
	BootstrapRepo     string   `koanf:"bootstrap_repo" toml:"bootstrap_repo"`
	BootstrapPackages []string `koanf:"bootstrap_packages" toml:"bootstrap_packages"`
	BaseManager       string   `koanf:"base_manager" toml:"base_manager"`
	BuildTool         string   `koanf:"build_tool" toml:"build_tool"`
	RecipeDir         string   `koanf:"recipe_dir" toml:"recipe_dir"`
	LocalPackages     []string `koanf:"local_packages" toml:"local_packages"`
	Packages          []string `koanf:"packages" toml:"packages"`
}

// Deploy lists the configuration trees copied out of the checkout
type Deploy struct {
	OverlayDir     string   `koanf:"overlay_dir" toml:"overlay_dir"`
	ConfigFolders  []string `koanf:"config_folders" toml:"config_folders"`
	HomeFolders    []string `koanf:"home_folders" toml:"home_folders"`
	ProtectedFiles []string `koanf:"protected_files" toml:"protected_files"`
	BackupSuffix   string   `koanf:"backup_suffix" toml:"backup_suffix"`
}

// Script is an auxiliary installer script inside the checkout
type Script struct {
	Name    string   `koanf:"name" toml:"name"`
	Dir     string   `koanf:"dir" toml:"dir"`
	Command []string `koanf:"command" toml:"command"`
}

// Seed is a default file copied only when absent
type Seed struct {
	Name        string `koanf:"name" toml:"name"`
	Source      string `koanf:"source" toml:"source"`
	Destination string `koanf:"destination" toml:"destination"`
}

// Finalize configures the post-install steps
type Finalize struct {
	Seeds              []Seed   `koanf:"seeds" toml:"seeds"`
	Wallpaper          string   `koanf:"wallpaper" toml:"wallpaper"`
	ColorGenerator     string   `koanf:"color_generator" toml:"color_generator"`
	ColorGeneratorArgs []string `koanf:"color_generator_args" toml:"color_generator_args"`
	Editors            []string `koanf:"editors" toml:"editors"`
	Extension          string   `koanf:"extension" toml:"extension"`
	ExtensionName      string   `koanf:"extension_name" toml:"extension_name"`
}

// Uninstall lists paths removed in addition to the deployed trees
type Uninstall struct {
	ExtraPaths []string `koanf:"extra_paths" toml:"extra_paths"`
}
