package domain

// Контролируемый словарь классификатора. Таблицы неизменяемы после инициализации пакета.

var categoriesByGroup = map[CategoryGroup][]string{
	UpperWear:   {"T-Shirt", "Shirt", "Blouse", "Sweater", "Hoodie", "Tank Top", "Polo"},
	BottomWear:  {"Jeans", "Trousers", "Shorts", "Skirt", "Joggers", "Leggings"},
	OuterWear:   {"Jacket", "Coat", "Blazer", "Cardigan", "Parka", "Vest"},
	Footwear:    {"Sneakers", "Boots", "Loafers", "Sandals", "Heels", "Flats"},
	Accessories: {"Bag", "Belt", "Hat", "Scarf", "Watch", "Sunglasses"},
	OtherItems:  {"Dress", "Jumpsuit", "Swimwear"},
}

var genericAttributes = map[string][]string{
	AttrColor:    {"Black", "White", "Grey", "Navy", "Blue", "Red", "Green", "Beige", "Brown", "Pink", "Yellow"},
	AttrPattern:  {"Solid", "Striped", "Checked", "Floral", "Printed", "Dotted"},
	AttrMaterial: {"Cotton", "Denim", "Wool", "Leather", "Linen", "Polyester", "Silk"},
	AttrSeason:   {"Summer", "Winter", "Spring", "Autumn", "All Season"},
	AttrOccasion: {"Casual", "Formal", "Business", "Sport", "Party"},
}

var specificAttributes = map[CategoryGroup]map[string][]string{
	UpperWear: {
		"neckline":     {"Round", "V-Neck", "Collar", "Turtleneck"},
		"sleeveLength": {"Short Sleeve", "Long Sleeve", "Sleeveless"},
		"topLength":    {"Cropped", "Waist", "Hip"},
	},
	BottomWear: {
		"fit":          {"Slim", "Regular", "Wide", "Skinny"},
		"bottomLength": {"Short", "Knee", "Ankle", "Full"},
	},
	OuterWear: {
		"closure": {"Zip", "Buttons", "Open"},
	},
	Footwear: {
		"heelHeight": {"Flat", "Low", "High"},
	},
}

// CategoriesOf возвращает категории группы из словаря.
func CategoriesOf(g CategoryGroup) []string {
	return append([]string(nil), categoriesByGroup[g]...)
}

// AttributeVocabulary возвращает допустимые атрибуты для группы: общие плюс специфичные.
func AttributeVocabulary(g CategoryGroup) map[string][]string {
	res := make(map[string][]string, len(genericAttributes)+len(specificAttributes[g]))
	for k, v := range genericAttributes {
		res[k] = append([]string(nil), v...)
	}
	for k, v := range specificAttributes[g] {
		res[k] = append([]string(nil), v...)
	}
	return res
}

// KnownCategory проверяет, что категория принадлежит группе.
func KnownCategory(g CategoryGroup, category string) bool {
	for _, c := range categoriesByGroup[g] {
		if c == category {
			return true
		}
	}
	return false
}
