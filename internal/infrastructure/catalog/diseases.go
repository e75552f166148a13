package catalog

// DiseaseInfo é o conteúdo educativo de uma classe
type DiseaseInfo struct {
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name"`
	Explanation string   `json:"explanation"`
	Treatment   []string `json:"treatment"`
}

var diseases = map[string]DiseaseInfo{
	"Actinic keratosis": {
		DisplayName: "Actinic Keratosis",
		Explanation: "Actinic keratosis (AK) is a pre-cancerous skin lesion caused by long-term sun exposure. It appears as rough, scaly or crusty patches on skin that is often exposed to UV light, especially the face, ears, neck, arms and the back of the hands.",
		Treatment: []string{
			"Topical creams such as 5-fluorouracil (5-FU) or imiquimod",
			"Cryotherapy (freezing with liquid nitrogen)",
			"Laser therapy or photodynamic therapy (PDT)",
			"Curettage (scraping the lesion)",
			"Regular dermatologist visits for monitoring",
			"Sun protection with SPF 30+ sunscreen",
			"Periodic skin checks for early detection of skin cancer",
		},
	},
	"Atopic Dermatitis": {
		DisplayName: "Atopic Dermatitis (Eczema)",
		Explanation: "Atopic dermatitis is a chronic inflammatory skin condition that makes the skin dry, itchy and inflamed. It is common in children but can persist into adulthood. Eczema usually appears in the elbow creases, behind the knees, on the neck and on the face.",
		Treatment: []string{
			"Moisturize regularly to keep the skin hydrated",
			"Topical corticosteroid creams to reduce inflammation",
			"Antihistamines to relieve itching",
			"Avoid allergens and irritants (harsh soaps, detergents)",
			"Bathe with warm, not hot, water",
			"Cold compresses to reduce itching",
			"See a doctor for more intensive treatment when needed",
		},
	},
	"Benign keratosis": {
		DisplayName: "Benign Keratosis (Seborrheic Keratosis)",
		Explanation: "Benign keratosis is a common non-cancerous skin growth, especially in older adults. The lesions look like brown, black or yellow patches that feel waxy or rough to the touch. They are harmless, although some people choose to remove them for cosmetic reasons.",
		Treatment: []string{
			"No treatment needed if it is not bothersome",
			"Cryotherapy (freezing) to remove the lesion",
			"Curettage (scraping) by a doctor",
			"Laser therapy",
			"Electrocautery (burning with electric current)",
			"Dermatologist consultation for evaluation and treatment options",
			"Monitor for changes in size, color or shape",
		},
	},
	"Dermatofibroma": {
		DisplayName: "Dermatofibroma",
		Explanation: "Dermatofibroma is a common benign skin tumor, usually a small, firm, reddish-brown bump. It most often appears on the legs and arms. Dermatofibromas are harmless and usually need no treatment unless they are bothersome or change.",
		Treatment: []string{
			"No treatment needed if it is not bothersome",
			"Surgical excision if bothersome or for cosmetic reasons",
			"Cryotherapy for smaller lesions",
			"Monitor for changes in size or color",
			"Dermatologist consultation for evaluation",
			"Avoid repeated trauma to the area",
		},
	},
	"Melanocytic nevus": {
		DisplayName: "Melanocytic Nevus (Mole)",
		Explanation: "A melanocytic nevus, or mole, is a common skin growth. Moles can be present at birth or develop over time. Most are benign, but some can turn into melanoma, so changes should be watched with the ABCDE method (Asymmetry, Border, Color, Diameter, Evolution).",
		Treatment: []string{
			"No treatment needed if it is not bothersome and does not change",
			"Surgical excision if malignancy is suspected",
			"Biopsy for evaluation when changes occur",
			"Routine skin checks by a doctor",
			"Self-monitoring with the ABCDE method",
			"Photographs to document changes",
			"See a doctor promptly if size, color or shape changes",
		},
	},
	"Melanoma": {
		DisplayName: "Melanoma",
		Explanation: "Melanoma is the most serious type of skin cancer and develops from the pigment-producing melanocytes. It can appear anywhere on the body, including areas not exposed to the sun. Early detection is essential because melanoma can spread to other parts of the body if left untreated.",
		Treatment: []string{
			"Surgical excision of the melanoma and surrounding margin",
			"Sentinel lymph node biopsy for staging",
			"Immunotherapy for advanced melanoma",
			"Targeted therapy for specific gene mutations",
			"Chemotherapy when needed",
			"Radiotherapy in specific cases",
			"Routine follow-up to detect recurrence",
			"Oncology consultation for a comprehensive treatment plan",
		},
	},
	"Squamous cell carcinoma": {
		DisplayName: "Squamous Cell Carcinoma",
		Explanation: "Squamous cell carcinoma (SCC) is a common skin cancer that develops from squamous cells in the outer layer of the skin. It usually appears as a red, scaly patch or a sore that does not heal. It can spread if untreated, but most cases are curable when detected and treated early.",
		Treatment: []string{
			"Surgical excision of the cancer and surrounding margin",
			"Mohs surgery for the face or other critical areas",
			"Curettage and electrocautery for small lesions",
			"Cryotherapy for superficial lesions",
			"Radiotherapy for inoperable cases",
			"Topical chemotherapy (5-FU) for superficial lesions",
			"Routine follow-up for monitoring",
			"Sun protection for prevention",
		},
	},
	"Tinea Ringworm Candidiasis": {
		DisplayName: "Tinea / Ringworm / Candidiasis",
		Explanation: "Tinea is a fungal skin infection caused by dermatophytes. It can affect many parts of the body and is named after its location (tinea corporis, tinea pedis, tinea capitis). Candidiasis is a fungal infection caused by Candida, usually in moist areas such as skin folds.",
		Treatment: []string{
			"Topical antifungal creams (clotrimazole, miconazole, terbinafine)",
			"Oral antifungals for severe or widespread infections",
			"Keep the area clean and dry",
			"Use the cream as directed, usually for 2-4 weeks",
			"Wash clothes, towels and bedding in hot water",
			"Do not share clothes or personal items",
			"See a doctor for appropriate treatment",
			"Wear sandals in damp public places",
		},
	},
	"Vascular lesion": {
		DisplayName: "Vascular Lesion",
		Explanation: "Vascular lesions are growths or abnormalities of the blood vessels in the skin, including hemangiomas, cherry angiomas and spider angiomas. Most are benign, but some may need medical evaluation.",
		Treatment: []string{
			"No treatment needed if it is not bothersome",
			"Laser therapy for cosmetically bothersome lesions",
			"Sclerotherapy for certain vascular lesions",
			"Surgical excision for large or bothersome lesions",
			"Monitor for changes in size or symptoms",
			"Dermatologist consultation for evaluation",
			"Avoid trauma to the area",
		},
	},
}
