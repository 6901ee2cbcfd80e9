package domain

// Category is a logical product group. Subterms are more specific search
// keywords that may be used in place of the category name.
type Category struct {
	Name     string
	Subterms []string
}

// DefaultCategories returns the categories searched on every run, in report order
func DefaultCategories() []Category {
	return []Category{
		{Name: "Getränke", Subterms: []string{"Wasser", "Saft", "Limonade", "Bier", "Wein", "Kaffee", "Tee"}},
		{Name: "Tiefkühlprodukte", Subterms: []string{"Pizza", "Gemüse", "Fisch", "Eis", "Kräuter"}},
		{Name: "Backzutaten", Subterms: []string{"Mehl", "Zucker", "Backpulver", "Hefe", "Vanille"}},
		{Name: "Grundnahrungsmittel", Subterms: []string{"Reis", "Öl", "Nudeln", "Kartoffeln", "Butter"}},
		{Name: "Pasta und Reis", Subterms: []string{"Spaghetti", "Penne", "Basmati", "Couscous"}},
		{Name: "Konserven", Subterms: []string{"Mais", "Bohnen", "Erbsen", "Tomaten", "Thunfisch"}},
		{Name: "Obst", Subterms: []string{"Apfel", "Banane", "Birne", "Traube", "Orange"}},
		{Name: "Gemüse", Subterms: []string{"Tomate", "Gurke", "Paprika", "Karotte", "Zwiebel"}},
		{Name: "Internationale Küche", Subterms: []string{"Sojasauce", "Curry", "Pesto", "Kokosmilch"}},
		{Name: "Hygiene", Subterms: []string{"Shampoo", "Zahnpasta", "Duschgel", "Deo", "Seife"}},
		{Name: "Drogerie", Subterms: []string{"Wattepads", "Creme", "Lotion", "Make-Up", "Rasiergel"}},
		{Name: "Putzmittel", Subterms: []string{"Spülmittel", "Reiniger", "Waschmittel", "Weichspüler"}},
		{Name: "Haushaltswaren", Subterms: []string{"Müllbeutel", "Küchenrolle", "Toilettenpapier"}},
	}
}

// CategoryNames returns the names of the given categories in order
func CategoryNames(categories []Category) []string {
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.Name)
	}
	return names
}
