// Package topic holds the fixed curriculum: the catalog of topics a
// lesson can be generated from. Topics are immutable inputs; they own no
// generated content.
package topic

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

// Topic is one chapter of the curriculum.
type Topic struct {
	ID      string `yaml:"id"`
	Title   string `yaml:"title"`
	Content string `yaml:"content"`
}

// Catalog is the ordered list of topics.
type Catalog struct {
	Topics []Topic `yaml:"topics"`
}

// Load reads a catalog from a YAML file. When path is empty the built-in
// default catalog is returned.
func Load(path string) (*Catalog, error) {
	if path == "" {
		log.Debug("No catalog file configured, using built-in curriculum")
		return DefaultCatalog(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("topic: read catalog: %w", err)
	}

	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("topic: parse catalog: %w", err)
	}
	if err := cat.validate(); err != nil {
		return nil, err
	}

	log.Info("Loaded topic catalog", "path", path, "topics", len(cat.Topics))
	return &cat, nil
}

func (c *Catalog) validate() error {
	if len(c.Topics) == 0 {
		return fmt.Errorf("topic: catalog has no topics")
	}
	seen := make(map[string]bool, len(c.Topics))
	for i, t := range c.Topics {
		if t.ID == "" || t.Title == "" || t.Content == "" {
			return fmt.Errorf("topic: entry %d is missing id, title, or content", i)
		}
		if seen[t.ID] {
			return fmt.Errorf("topic: duplicate id %q", t.ID)
		}
		seen[t.ID] = true
	}
	return nil
}

// ByID returns the topic with the given id.
func (c *Catalog) ByID(id string) (Topic, bool) {
	for _, t := range c.Topics {
		if t.ID == id {
			return t, true
		}
	}
	return Topic{}, false
}

// DefaultCatalog returns the built-in lower-secondary science curriculum.
func DefaultCatalog() *Catalog {
	return &Catalog{Topics: []Topic{
		{
			ID:    "1",
			Title: "Application of Forces and Transfer of Energy",
			Content: `Topic 1: Application of Forces and Transfer of Energy.
Learning Outcomes:
(a) describe a force as a pull or a push.
(b) show an understanding that a force can be a contact or non-contact force.
(c) measure force, using newton (N) as the SI unit.
(d) understand that a gravitational field is the region in which a mass experiences a force due to gravitational attraction.
(e) define gravitational field strength g as gravitational force per unit mass.
(f) recall and apply the relationship weight = mass x gravitational field strength.
(g) compare weight and mass.
(h) show an understanding that friction is a contact force that opposes motion or tendency for motion.
(i) state the good and bad effects of friction and means to reduce friction.
(j) describe and predict the effects of forces on state of rest/motion, size/shape.
(k) describe the effect of balanced and unbalanced forces.
(l) identify forces acting on an object and draw free body diagrams.
(m) Newton's Three Laws of Motion.
(n) investigate pressure using the formula, pressure = force/area.
(o) explain the meaning of energy and state the SI unit as the joule.
(p) different energy stores (kinetic, potential, nuclear, internal) and transfers.
(q) work done as energy transfer.
(r) principle of conservation of energy.`,
		},
		{
			ID:    "2",
			Title: "Transfer of Heat and its Effects",
			Content: `Topic 2: Transfer of Heat and its Effects.
Learning Outcomes:
(a) show an understanding that heat flows from a region of higher temperature to a region of lower temperature.
(b) distinguish between heat and temperature.
(c) describe how heat is transferred by conduction, convection and radiation.
(d) explain everyday applications and consequences of conduction, convection and radiation.
(e) describe the effects of heat gain or loss on the temperature and state of a body.
(f) explain expansion and contraction of matter in terms of the particulate model.
(g) state everyday applications and consequences of expansion and contraction.
(h) describe melting, boiling, condensation and evaporation in terms of energy transfer.
(i) distinguish between boiling and evaporation.`,
		},
		{
			ID:    "3",
			Title: "Chemical Changes",
			Content: `Topic 3: Chemical Changes.
Learning Outcomes:
(a) distinguish between physical and chemical changes.
(b) recognise that a chemical change involves the formation of new substances.
(c) describe common types of chemical reactions: combustion, oxidation, neutralisation and decomposition.
(d) state the word equations for common chemical reactions.
(e) show an understanding that chemical reactions involve energy changes.
(f) investigate factors that affect the speed of a chemical reaction.
(g) describe the corrosion of metals and means of prevention.
(h) appreciate the role of chemical reactions in everyday life.`,
		},
	}}
}
