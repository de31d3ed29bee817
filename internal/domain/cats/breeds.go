package cats

// Razas conocidas para el selector. La raza sigue siendo texto libre.
var knownBreeds = []string{
	"Abyssinian",
	"American Shorthair",
	"Balinese",
	"Bengal",
	"Birman",
	"Bombay",
	"British Shorthair",
	"Burmese",
	"Cornish Rex",
	"Devon Rex",
	"Egyptian Mau",
	"Exotic Shorthair",
	"Himalayan",
	"Maine Coon",
	"Manx",
	"Munchkin",
	"Nebelung",
	"Norwegian Forest",
	"Persian",
	"Ragdoll",
	"Russian Blue",
	"Savannah",
	"Scottish Fold",
	"Siamese",
	"Siberian",
	"Singapura",
	"Somali",
	"Sphynx",
	"Turkish Angora",
}

// Breeds devuelve una copia del catálogo.
func Breeds() []string {
	out := make([]string, len(knownBreeds))
	copy(out, knownBreeds)
	return out
}
