package models

// SymptomCategory is one follow-up script of the symptom checker.
type SymptomCategory struct {
	Key       string
	Keywords  []string
	Questions []string
}

var symptomCategories = []SymptomCategory{
	{
		Key:      "stomach_pain",
		Keywords: []string{"stomach pain", "stomach ache", "tummy", "abdominal pain", "belly pain"},
		Questions: []string{
			"Where exactly is the stomach pain (upper, lower, right, left)?",
			"Is it burning, cramping, sharp, or dull?",
			"Does eating make it better or worse?",
			"Any nausea, vomiting, or changes in bowel movements?",
			"How long have you had this pain?",
		},
	},
	{
		Key:      "nausea",
		Keywords: []string{"nausea", "nauseous", "queasy"},
		Questions: []string{
			"Are you actually vomiting or just feeling nauseous?",
			"Is it related to eating or happens anytime?",
			"Any abdominal pain or cramping with the nausea?",
			"Do you have diarrhea or constipation?",
			"When did the nausea start?",
		},
	},
	{
		Key:      "diarrhea",
		Keywords: []string{"diarrhea", "loose stool", "diarrhoea"},
		Questions: []string{
			"How many loose stools have you had today?",
			"What color and consistency are the stools?",
			"Is there any blood or mucus in the stool?",
			"Do you have abdominal cramping or pain?",
			"Have you traveled recently or eaten anything unusual?",
		},
	},
	{
		Key:      "heartburn",
		Keywords: []string{"heartburn", "burning chest", "acid"},
		Questions: []string{
			"Do you feel burning in your chest or throat?",
			"Does it happen after eating or when lying down?",
			"Do you have a sour taste in your mouth?",
			"Does antacid medication help relieve it?",
			"How often do you experience heartburn?",
		},
	},
	{
		Key:      "cough",
		Keywords: []string{"cough", "coughing"},
		Questions: []string{
			"Is it a dry cough or are you bringing up phlegm?",
			"What color is the phlegm (if any)?",
			"Is the cough worse at night or during the day?",
			"Do you have fever or shortness of breath?",
			"How long have you had this cough?",
		},
	},
	{
		Key:      "shortness_of_breath",
		Keywords: []string{"shortness of breath", "breathless", "short of breath", "can't breathe"},
		Questions: []string{
			"Does it happen at rest or only with activity?",
			"Any chest pain or tightness with breathing?",
			"Do you have a cough or wheezing?",
			"Any swelling in your legs or feet?",
			"How long have you noticed breathing difficulty?",
		},
	},
	{
		Key:      "runny_nose",
		Keywords: []string{"runny nose", "cold", "runny"},
		Questions: []string{
			"Is the discharge clear, yellow, or green?",
			"Do you have sneezing or congestion?",
			"Any facial pressure or sinus pain?",
			"Do you have allergies to anything?",
			"How long has your nose been running?",
		},
	},
	{
		Key:      "chest_pain",
		Keywords: []string{"chest pain", "chest tightness"},
		Questions: []string{
			"Where exactly in your chest (center, left, right)?",
			"Is it sharp, crushing, burning, or tight?",
			"Does it spread to arm, jaw, neck, or back?",
			"Does deep breathing or movement make it worse?",
			"Any shortness of breath or sweating?",
		},
	},
	{
		Key:      "heart_palpitations",
		Keywords: []string{"heart palpitations", "palpitations", "heart racing", "pounding heart"},
		Questions: []string{
			"Does your heart feel like it's racing or skipping beats?",
			"Do you feel dizzy or lightheaded with palpitations?",
			"Any chest pain or shortness of breath?",
			"What seems to trigger the palpitations?",
			"How long do the episodes last?",
		},
	},
	{
		Key:      "headache",
		Keywords: []string{"headache", "head ache", "head hurts"},
		Questions: []string{
			"Where is the headache (front, back, temples, all over)?",
			"Is it throbbing, sharp, or pressure-like?",
			"Any sensitivity to light or sound?",
			"Do you feel nauseous or have vision changes?",
			"What seems to trigger or worsen it?",
		},
	},
	{
		Key:      "dizziness",
		Keywords: []string{"dizziness", "dizzy", "lightheaded", "vertigo"},
		Questions: []string{
			"Is it spinning dizziness or feeling faint?",
			"Does it happen when you stand up or change positions?",
			"Any nausea or vomiting with the dizziness?",
			"Do you have hearing changes or ear problems?",
			"How long do the dizzy episodes last?",
		},
	},
	{
		Key:      "migraine",
		Keywords: []string{"migraine", "migraines"},
		Questions: []string{
			"Is it a severe, throbbing headache on one side?",
			"Do you see flashing lights or have vision changes?",
			"Are you sensitive to light, sound, or smells?",
			"Do you feel nauseous or vomit with the headache?",
			"How long do your migraine episodes typically last?",
		},
	},
	{
		Key:      "numbness",
		Keywords: []string{"numbness", "numb", "tingling", "pins and needles"},
		Questions: []string{
			"Where do you feel numb (hands, feet, face, other)?",
			"Is it constant or comes and goes?",
			"Any tingling or pins-and-needles sensation?",
			"Do you have weakness in the numb area?",
			"Did the numbness start suddenly or gradually?",
		},
	},
	{
		Key:      "back_pain",
		Keywords: []string{"back pain", "backache", "lower back"},
		Questions: []string{
			"Where exactly is the back pain (upper, middle, lower)?",
			"Is it sharp, dull, burning, or shooting?",
			"Does it radiate to your legs or other areas?",
			"What makes it better or worse (sitting, standing, lying)?",
			"How long have you been experiencing this pain?",
		},
	},
	{
		Key:      "joint_pain",
		Keywords: []string{"joint pain", "joints"},
		Questions: []string{
			"Which joints are painful (knees, shoulders, hands)?",
			"Is there swelling or stiffness in the joints?",
			"Is the pain worse in the morning or evening?",
			"Does movement make it better or worse?",
			"How many joints are affected?",
		},
	},
	{
		Key:      "muscle_pain",
		Keywords: []string{"muscle pain", "muscle ache", "sore muscles"},
		Questions: []string{
			"Where are your muscles sore or painful?",
			"Did you exercise or do unusual activity recently?",
			"Is there muscle weakness or cramping?",
			"Does massage or heat help the pain?",
			"Are you taking any new medications?",
		},
	},
	{
		Key:      "fatigue",
		Keywords: []string{"fatigue", "tired", "exhausted", "no energy"},
		Questions: []string{
			"How long have you been feeling unusually tired?",
			"Is it constant or comes and goes?",
			"Any difficulty sleeping or sleep changes?",
			"Do you have other symptoms like fever or pain?",
			"Does rest help or does the tiredness persist?",
		},
	},
	{
		Key:      "fever",
		Keywords: []string{"fever", "temperature", "feverish"},
		Questions: []string{
			"What is your current temperature (if measured)?",
			"Do you have chills or sweats?",
			"Any body aches or muscle pain?",
			"Do you have other symptoms like cough or sore throat?",
			"When did the fever start?",
		},
	},
	{
		Key:      "insomnia",
		Keywords: []string{"insomnia", "can't sleep", "sleepless"},
		Questions: []string{
			"Do you have trouble falling asleep or staying asleep?",
			"How many hours of sleep do you get per night?",
			"Do you wake up feeling rested?",
			"What keeps you awake at night?",
			"How long have you had sleep problems?",
		},
	},
	{
		Key:      "rash",
		Keywords: []string{"rash", "hives", "red spots"},
		Questions: []string{
			"Where on your body is the rash?",
			"Is it itchy, painful, or just visible?",
			"What does it look like (red spots, bumps, patches)?",
			"Have you used any new products or medications?",
			"When did you first notice the rash?",
		},
	},
	{
		Key:      "itching",
		Keywords: []string{"itching", "itchy", "itch"},
		Questions: []string{
			"Where on your body are you itching?",
			"Is there a visible rash or just itching?",
			"Does anything make the itching better or worse?",
			"Have you been exposed to new allergens?",
			"How long have you been itching?",
		},
	},
	{
		Key:      "eye_pain",
		Keywords: []string{"eye pain", "eye hurts", "sore eyes"},
		Questions: []string{
			"Is the pain in the eye or around the eye?",
			"Any changes in vision or light sensitivity?",
			"Is there discharge or tearing?",
			"Does blinking make it worse?",
			"Did something get in your eye?",
		},
	},
	{
		Key:      "ear_pain",
		Keywords: []string{"ear pain", "earache", "ear ache"},
		Questions: []string{
			"Is the pain inside the ear or around the outside?",
			"Any discharge or fluid coming from the ear?",
			"Do you have hearing changes or ringing?",
			"Does pulling on your ear make it worse?",
			"Do you have cold or sinus symptoms?",
		},
	},
	{
		Key:      "sore_throat",
		Keywords: []string{"sore throat", "throat pain", "scratchy throat"},
		Questions: []string{
			"Is it painful to swallow?",
			"Do you see any white patches or redness?",
			"Any swollen glands in your neck?",
			"Do you have fever or body aches?",
			"How many days have you had the sore throat?",
		},
	},
	{
		Key:      "urinary_problems",
		Keywords: []string{"urinary problems", "burning urination", "peeing", "urination"},
		Questions: []string{
			"Do you have pain or burning when urinating?",
			"Are you urinating more or less frequently than usual?",
			"Any blood in the urine?",
			"Do you feel like you can't completely empty your bladder?",
			"Any urgency or inability to control urination?",
		},
	},
	{
		Key:      "menstrual_problems",
		Keywords: []string{"menstrual problems", "period pain", "periods", "cramps during period"},
		Questions: []string{
			"Are your periods irregular, heavy, or painful? (Females)",
			"Any bleeding between periods?",
			"How long is your typical cycle?",
			"Any severe cramping or pelvic pain?",
			"When was your last menstrual period?",
		},
	},
	{
		Key:      "anxiety",
		Keywords: []string{"anxiety", "anxious", "nervous", "worried"},
		Questions: []string{
			"Do you feel excessively worried or nervous?",
			"Any physical symptoms like racing heart or sweating?",
			"Do you avoid certain situations due to anxiety?",
			"Any panic attacks or intense fear episodes?",
			"How long have you been experiencing anxiety?",
		},
	},
	{
		Key:      "depression",
		Keywords: []string{"depression", "depressed", "hopeless", "sad"},
		Questions: []string{
			"Do you feel sad, hopeless, or empty most days?",
			"Any loss of interest in activities you used to enjoy?",
			"Any changes in sleep or appetite?",
			"Do you have thoughts of self-harm?",
			"How long have you felt this way?",
		},
	},
}

// MaxFollowUps is the number of follow-up questions of every category.
const MaxFollowUps = 5

var symptomIndex = func() map[string]*SymptomCategory {
	idx := make(map[string]*SymptomCategory, len(symptomCategories))
	for i := range symptomCategories {
		idx[symptomCategories[i].Key] = &symptomCategories[i]
	}
	return idx
}()

// LookupSymptom returns the category with the given key.
func LookupSymptom(key string) (*SymptomCategory, bool) {
	c, ok := symptomIndex[key]
	return c, ok
}

// SymptomKeys lists every category key in declaration order.
func SymptomKeys() []string {
	keys := make([]string, len(symptomCategories))
	for i, c := range symptomCategories {
		keys[i] = c.Key
	}
	return keys
}
