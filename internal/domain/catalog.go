package domain

// DefaultPlayerName is used when no player has been saved yet.
const DefaultPlayerName = "น้องเก่ง"

// DefaultWorlds returns a fresh copy of the bundled catalog.
func DefaultWorlds() []World {
	return CloneWorlds(defaultWorlds)
}

// Image URLs are placeholders; swap them for curated, licensed images.
var defaultWorlds = []World{
	{
		ID:    "beach",
		Name:  "ชายหาดตัวอักษร",
		Icon:  "umbrella-beach",
		Color: "#ffb347",
		Levels: []Level{
			{Type: LevelTypeMatchImageWord, Question: "ภาพนี้คือคำว่าอะไร?", Image: "https://source.unsplash.com/250x180/?ice%20cream,dessert,food", Options: []string{"ไอศกรีม", "รถไฟ", "ดินสอ"}, Answer: "ไอศกรีม"},
			{Type: LevelTypeMatchImageWord, Question: "ภาพนี้คือคำว่าอะไร?", Image: "https://source.unsplash.com/250x180/?cabbage,vegetable,green", Options: []string{"ต้นไม้", "กะหล่ำปลี", "ชมพู่"}, Answer: "กะหล่ำปลี"},
			{Type: LevelTypeMatchImageWord, Question: "ภาพนี้คือคำว่าอะไร?", Image: "https://source.unsplash.com/250x180/?lion,animal,safari", Options: []string{"ลูกชิ้น", "สิงโต", "ไข่ดาว"}, Answer: "สิงโต"},
		},
	},
	{
		ID:    "forest",
		Name:  "ป่าคำศัพท์",
		Icon:  "tree",
		Color: "#06d6a0",
		Levels: []Level{
			{Type: LevelTypeSentenceFromImage, Question: "เด็กๆ กำลังทำอะไรกัน?", Image: "https://source.unsplash.com/250x180/?children,park,playing,volunteer", Options: []string{"ช่วยกันเก็บขยะ", "วิ่งเล่นในสนาม", "อ่านหนังสือ"}, Answer: "ช่วยกันเก็บขยะ"},
			{Type: LevelTypeSentenceFromImage, Question: "เด็กผู้ชายกำลังทำอะไร?", Image: "https://source.unsplash.com/250x180/?boy,water%20buffalo,farm,rural", Options: []string{"เล่นกับควาย", "ให้อาหารไก่", "ดูนกบิน"}, Answer: "เล่นกับควาย"},
		},
	},
	{
		ID:    "town",
		Name:  "เมืองประโยคสนุก",
		Icon:  "city",
		Color: "#118ab2",
		Levels: []Level{
			{Type: LevelTypeSymbolMeaning, Question: "ป้ายนี้หมายความว่าอย่างไร?", Image: "https://source.unsplash.com/250x180/?traffic%20sign,road%20symbol,warning", Options: []string{"ห้ามเลี้ยวซ้าย", "ให้เลี้ยวซ้าย", "ทางตัน"}, Answer: "ห้ามเลี้ยวซ้าย"},
			{Type: LevelTypeSentenceCompletion, Question: "ฉันชอบกิน ____ เพราะมันหวานอร่อย", Options: []string{"มะม่วง", "พริก", "เกลือ"}, Answer: "มะม่วง"},
		},
	},
	{
		ID:    "cave",
		Name:  "ถ้ำเรื่องราว",
		Icon:  "mountain",
		Color: "#9d4edd",
		Levels: []Level{
			{Type: LevelTypePassageComprehension, Question: "จากเรื่องที่อ่าน สุนัขชื่ออะไร?", Passage: "มะลิมีสุนัขตัวหนึ่งชื่อจุด มันชอบวิ่งเล่นในสนามหญ้าทุกวัน", Options: []string{"มะลิ", "จุด", "ข้าวตู"}, Answer: "จุด"},
		},
	},
}
