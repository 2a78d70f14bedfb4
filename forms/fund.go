// Package forms 组装基金会的各份单页文档：申请表、助学金证明表与传单。
// 每份文档都在 layout.Sheet 上绘制，输出 layout.Result，由渲染器转换为 PDF。
package forms

// Fund 是文档中出现的基金会信息，可由配置文件覆盖。
type Fund struct {
	Name         string `toml:"name" yaml:"name" json:"name"`
	FormalName   string `toml:"formal_name" yaml:"formal_name" json:"formal_name"`
	Suffix       string `toml:"suffix" yaml:"suffix" json:"suffix"`
	LegalName    string `toml:"legal_name" yaml:"legal_name" json:"legal_name"`
	Tagline      string `toml:"tagline" yaml:"tagline" json:"tagline"`
	Status       string `toml:"status" yaml:"status" json:"status"`
	Site         string `toml:"site" yaml:"site" json:"site"`
	URL          string `toml:"url" yaml:"url" json:"url"`
	ApplyURL     string `toml:"apply_url" yaml:"apply_url" json:"apply_url"`
	Email        string `toml:"email" yaml:"email" json:"email"`
	AcademicYear string `toml:"academic_year" yaml:"academic_year" json:"academic_year"`
}

// DefaultFund 返回 Dr. Allison Rose Memorial Fund 的信息。
func DefaultFund() Fund {
	return Fund{
		Name:         "Dr. Allison Rose",
		FormalName:   "Dr. Allison Thomas Rose",
		Suffix:       "Memorial Fund",
		LegalName:    "Dr. Allison Rose Memorial Fund, Inc.",
		Tagline:      "A 501(c)(3) nonprofit organization",
		Status:       "501(c)(3) nonprofit organization",
		Site:         "allisonrosememorialfund.org",
		URL:          "https://www.allisonrosememorialfund.org/",
		ApplyURL:     "https://www.allisonrosememorialfund.org/apply.html",
		Email:        "applications@allisonrosememorialfund.org",
		AcademicYear: "2024-2025",
	}
}

// WithDefaults 用默认值补齐空字段。
func (f Fund) WithDefaults() Fund {
	d := DefaultFund()
	fill := func(dst *string, v string) {
		if *dst == "" {
			*dst = v
		}
	}
	fill(&f.Name, d.Name)
	fill(&f.FormalName, d.FormalName)
	fill(&f.Suffix, d.Suffix)
	fill(&f.LegalName, d.LegalName)
	fill(&f.Tagline, d.Tagline)
	fill(&f.Status, d.Status)
	fill(&f.Site, d.Site)
	fill(&f.URL, d.URL)
	fill(&f.ApplyURL, d.ApplyURL)
	fill(&f.Email, d.Email)
	fill(&f.AcademicYear, d.AcademicYear)
	return f
}

// FullName 返回 "名称 + 后缀"，例如 "Dr. Allison Rose Memorial Fund"。
func (f Fund) FullName() string {
	return f.Name + " " + f.Suffix
}

// Data 返回供 ${fund.*} 占位符使用的数据。
func (f Fund) Data() map[string]any {
	return map[string]any{
		"fund": map[string]string{
			"name":          f.Name,
			"formal_name":   f.FormalName,
			"suffix":        f.Suffix,
			"full_name":     f.FullName(),
			"legal_name":    f.LegalName,
			"tagline":       f.Tagline,
			"status":        f.Status,
			"site":          f.Site,
			"url":           f.URL,
			"apply_url":     f.ApplyURL,
			"email":         f.Email,
			"academic_year": f.AcademicYear,
		},
	}
}

// Assets 是文档引用的图片路径，相对于资源目录。
type Assets struct {
	Logo        string `toml:"logo" yaml:"logo" json:"logo"`
	AidLogo     string `toml:"aid_logo" yaml:"aid_logo" json:"aid_logo"`
	Stethoscope string `toml:"stethoscope" yaml:"stethoscope" json:"stethoscope"`
	Mortarboard string `toml:"mortarboard" yaml:"mortarboard" json:"mortarboard"`
	QR          string `toml:"qr" yaml:"qr" json:"qr"`
}

// DefaultAssets 返回 img/ 下的默认图片。
func DefaultAssets() Assets {
	return Assets{
		Logo:        "img/rose2.png",
		AidLogo:     "img/ar_logo_128.png",
		Stethoscope: "img/stethoscope.png",
		Mortarboard: "img/mortarboard.png",
		QR:          "img/qr.png",
	}
}

// WithDefaults 用默认值补齐空字段。
func (a Assets) WithDefaults() Assets {
	d := DefaultAssets()
	if a.Logo == "" {
		a.Logo = d.Logo
	}
	if a.AidLogo == "" {
		a.AidLogo = d.AidLogo
	}
	if a.Stethoscope == "" {
		a.Stethoscope = d.Stethoscope
	}
	if a.Mortarboard == "" {
		a.Mortarboard = d.Mortarboard
	}
	if a.QR == "" {
		a.QR = d.QR
	}
	return a
}
