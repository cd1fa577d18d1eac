package lang

// Info describes one compiled language for listings.
type Info struct {
	Name          string `json:"name" yaml:"name"`
	Flag          string `json:"flag" yaml:"flag"`
	File          string `json:"file" yaml:"file"`
	CommentPrefix string `json:"comment_prefix" yaml:"comment_prefix"`
	CommentSuffix string `json:"comment_suffix" yaml:"comment_suffix"`
}

// Describe lists every language in catalog order.
func (c *Catalog) Describe() []Info {
	out := make([]Info, 0, len(c.languages))
	for _, l := range c.languages {
		t := c.templates[l]
		out = append(out, Info{
			Name:          l.String(),
			Flag:          l.Flag(),
			File:          t.FileName,
			CommentPrefix: t.CommentPrefix,
			CommentSuffix: t.CommentSuffix,
		})
	}
	return out
}

// Flags returns the command-line spelling of every language.
func (c *Catalog) Flags() []string {
	return c.flags()
}
