package styles

import (
	"testing"
)

// TestNewStyles tests creating a Styles instance from a theme
func TestNewStyles(t *testing.T) {
	theme := GetDefaultTheme()
	styles := NewStyles(theme)

	if styles.Theme.Name != theme.Name {
		t.Errorf("NewStyles() theme name = %q, want %q", styles.Theme.Name, theme.Name)
	}
}

func TestStylesUseThemeColors(t *testing.T) {
	theme := GetDefaultTheme()
	s := NewStyles(theme)

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"Success", s.Success.GetForeground(), theme.Success},
		{"Error", s.Error.GetForeground(), theme.Error},
		{"Armed", s.Armed.GetForeground(), theme.Warning},
		{"Refreshing", s.Refreshing.GetForeground(), theme.Success},
		{"Hint", s.Hint.GetForeground(), theme.ForegroundMuted},
		{"StatusBar", s.StatusBar.GetBackground(), theme.Background},
		{"Spinner", s.Spinner.GetForeground(), theme.Spinner},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s color = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestDefaultStyles(t *testing.T) {
	s := DefaultStyles()
	if s.Theme.Name != "dark" {
		t.Errorf("DefaultStyles() theme = %q, want dark", s.Theme.Name)
	}
}
