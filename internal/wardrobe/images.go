package wardrobe

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// imageMap holds curated product-photography URLs keyed by a visual
// descriptor the curator selects from. The "default" key must exist.
var imageMap = map[string]string{
	// Menswear
	"mens_blazer_dark":    "https://images.unsplash.com/photo-1594938298603-c8148c47e356?q=80&w=800&auto=format&fit=crop",
	"mens_blazer_light":   "https://images.unsplash.com/photo-1507679799987-c73779587ccf?q=80&w=800&auto=format&fit=crop",
	"mens_jacket_leather": "https://images.unsplash.com/photo-1487222477894-8943e31ef7b2?q=80&w=800&auto=format&fit=crop",
	"mens_jacket_casual":  "https://images.unsplash.com/photo-1559551409-dadc959f76b8?q=80&w=800&auto=format&fit=crop",
	"mens_coat_long":      "https://images.unsplash.com/photo-1544923246-77307dd654cb?q=80&w=800&auto=format&fit=crop",
	"mens_shirt_white":    "https://images.unsplash.com/photo-1521572163474-6864f9cf17ab?q=80&w=800&auto=format&fit=crop",
	"mens_shirt_dress":    "https://images.unsplash.com/photo-1598033129183-c4f50c736f10?q=80&w=800&auto=format&fit=crop",
	"mens_knit_dark":      "https://images.unsplash.com/photo-1610652492500-ded49ceeb378?q=80&w=800&auto=format&fit=crop",
	"mens_knit_light":     "https://images.unsplash.com/photo-1611312449408-fcece27cdbb7?q=80&w=800&auto=format&fit=crop",
	"mens_pants_dark":     "https://images.unsplash.com/photo-1624378439575-d8705ad7ae80?q=80&w=800&auto=format&fit=crop",
	"mens_pants_light":    "https://images.unsplash.com/photo-1473966968600-fa801b869a1a?q=80&w=800&auto=format&fit=crop",
	"mens_denim_dark":     "https://images.unsplash.com/photo-1582552938357-32b906df40cb?q=80&w=800&auto=format&fit=crop",
	"mens_shoes_dress":    "https://images.unsplash.com/photo-1614252369475-531eba835eb1?q=80&w=800&auto=format&fit=crop",
	"mens_shoes_boot":     "https://images.unsplash.com/photo-1638318252277-3e66df96f9a0?q=80&w=800&auto=format&fit=crop",
	"mens_shoes_sneaker":  "https://images.unsplash.com/photo-1549298916-b41d501d3772?q=80&w=800&auto=format&fit=crop",

	// Womenswear
	"womens_blazer_black":  "https://images.unsplash.com/photo-1584039805625-f772ef919926?q=80&w=800&auto=format&fit=crop",
	"womens_coat_trench":   "https://images.unsplash.com/photo-1552873822-793575990526?q=80&w=800&auto=format&fit=crop",
	"womens_dress_black":   "https://images.unsplash.com/photo-1566174053879-31528523f8ae?q=80&w=800&auto=format&fit=crop",
	"womens_dress_casual":  "https://images.unsplash.com/photo-1595777457583-95e059d581b8?q=80&w=800&auto=format&fit=crop",
	"womens_top_white":     "https://images.unsplash.com/photo-1564257631407-4deb1f99d992?q=80&w=800&auto=format&fit=crop",
	"womens_knit_neutral":  "https://images.unsplash.com/photo-1603344797033-f0f4f587ab40?q=80&w=800&auto=format&fit=crop",
	"womens_pants_black":   "https://images.unsplash.com/photo-1594633312681-425c7b97ccd1?q=80&w=800&auto=format&fit=crop",
	"womens_denim_classic": "https://images.unsplash.com/photo-1541099649105-f69ad21f3246?q=80&w=800&auto=format&fit=crop",
	"womens_shoes_heel":    "https://images.unsplash.com/photo-1543163521-1bf539c55dd2?q=80&w=800&auto=format&fit=crop",
	"womens_shoes_boot":    "https://images.unsplash.com/photo-1608256246200-53e635b5b65f?q=80&w=800&auto=format&fit=crop",

	"default": "https://images.unsplash.com/photo-1490481651871-ab68de25d43d?q=80&w=800&auto=format&fit=crop",
}

// ImageURLForKey resolves a curator-selected image key to a display URL,
// falling back to the default image for unknown keys.
func ImageURLForKey(key string) string {
	if url, ok := imageMap[key]; ok {
		return url
	}
	return imageMap["default"]
}

// ImageKeys returns every selectable key except the default fallback.
func ImageKeys() []string {
	keys := make([]string, 0, len(imageMap))
	for k := range imageMap {
		if k == "default" {
			continue
		}
		keys = append(keys, k)
	}
	return keys
}

// DefaultImageURL returns the fallback display image.
func DefaultImageURL() string {
	return imageMap["default"]
}

// LoadImageMap replaces the built-in image map with one loaded from a
// YAML file of key: url pairs. The file must supply a "default" entry.
func LoadImageMap(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read image map: %w", err)
	}

	loaded := map[string]string{}
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("failed to parse image map: %w", err)
	}

	if loaded["default"] == "" {
		return fmt.Errorf("image map %s has no default entry", path)
	}

	imageMap = loaded
	return nil
}
