package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Channel is one guide channel. SepehrID > 0 marks a Sepehr TV feed;
// the radio feed has no Sepehr id and is fetched from radioquran.ir.
type Channel struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Logo     string `yaml:"logo"`
	SepehrID int    `yaml:"sepehrId,omitempty"`
}

// DefaultChannels is the built-in two-channel lineup.
func DefaultChannels() []Channel {
	return []Channel{
		{
			ID:       "QuranTV.ir@SD",
			Name:     "IRIB Quran",
			Logo:     "https://lb-cdn.sepehrtv.ir/img/channel/quarnlogo.png",
			SepehrID: 46,
		},
		{
			ID:   "Radio Quran",
			Name: "Radio Quran",
			Logo: "https://logoyab.com/wp-content/uploads/2024/08/Radio-Quran-Logo.png",
		},
	}
}

// LoadChannels returns the lineup from path when the file exists,
// otherwise the built-in defaults.
func LoadChannels(path string) ([]Channel, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultChannels(), nil
	} else if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var channels []Channel
	if err := yaml.Unmarshal(data, &channels); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(channels) == 0 {
		return DefaultChannels(), nil
	}
	for _, ch := range channels {
		if ch.ID == "" || ch.Name == "" {
			return nil, fmt.Errorf("%s: every channel needs an id and a name", path)
		}
	}
	return channels, nil
}
