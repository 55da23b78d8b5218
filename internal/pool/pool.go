// Package pool ships the fixed candidate pools the exercise generator and
// the casillero mental draw from: the object and concept word lists and the
// default label for each of the 100 mental slots.
package pool

import (
	"math/rand"

	"github.com/avaldes/memoria/internal/domain"
)

// Objects is the candidate pool for the objects module and for the
// object-association variant of the numbers module.
var Objects = []string{
	"mesa", "silla", "lampara", "reloj", "espejo", "libro", "cuchara", "tenedor",
	"cuchillo", "plato", "vaso", "botella", "taza", "sarten", "olla", "escoba",
	"cubo", "toalla", "jabon", "peine", "cepillo", "tijeras", "aguja", "hilo",
	"boton", "zapato", "calcetin", "camisa", "pantalon", "abrigo", "sombrero",
	"guante", "bufanda", "paraguas", "mochila", "cartera", "llave", "candado",
	"martillo", "clavo", "tornillo", "sierra", "pincel", "brocha", "cuadro",
	"marco", "cortina", "alfombra", "almohada", "manta", "sabana", "colchon",
	"ventana", "puerta", "escalera", "balcon", "chimenea", "televisor", "radio",
	"telefono", "ordenador", "raton", "teclado", "pantalla", "camara", "linterna",
	"pila", "cable", "enchufe", "bombilla", "vela", "cerilla", "encendedor",
	"periodico", "revista", "sobre", "sello", "lapiz", "boligrafo", "goma",
	"regla", "carpeta", "cuaderno", "pizarra", "tiza", "mapa", "globo",
	"bicicleta", "patinete", "pelota", "raqueta", "cuerda", "silbato", "tambor",
	"guitarra", "flauta", "violin", "piano", "trompeta", "campana", "moneda",
}

// Concepts is the candidate pool for the concepts module.
var Concepts = []string{
	"libertad", "justicia", "verdad", "belleza", "memoria", "tiempo", "espacio",
	"energia", "silencio", "armonia", "caos", "orden", "destino", "azar",
	"valentia", "miedo", "esperanza", "duda", "certeza", "sabiduria",
	"ignorancia", "paciencia", "prisa", "calma", "tormenta", "equilibrio",
	"cambio", "costumbre", "origen", "frontera", "horizonte", "infinito",
	"vacio", "plenitud", "nostalgia", "alegria", "tristeza", "asombro",
	"curiosidad", "atencion", "olvido", "recuerdo", "promesa", "secreto",
	"misterio", "evidencia", "intuicion", "razon", "locura", "cordura",
	"soledad", "compania", "amistad", "lealtad", "traicion", "perdon",
	"venganza", "gratitud", "orgullo", "humildad",
}

// defaultSlotLabels holds the out-of-the-box label for each casillero
// number, index 0 holding the label for number 1.
var defaultSlotLabels = []string{
	"te", "noe", "humo", "oca", "oso", "teja", "cubo", "hacha", "ojo", "toro",
	"dedo", "tetera", "tina", "taco", "dado", "ducha", "tubo", "techo", "tiza", "torre",
	"nido", "nata", "nene", "nuez", "nudo", "nicho", "anca", "nuca", "anzuelo", "nieve",
	"moto", "meta", "mina", "hamaca", "mimo", "mecha", "maki", "mofa", "maza", "amor",
	"codo", "cometa", "cuna", "coco", "cama", "coche", "casa", "cofre", "caza", "cera",
	"jade", "jota", "juno", "juego", "jamon", "gacha", "hueco", "gafa", "yeso", "giro",
	"seda", "sota", "sauna", "saco", "suma", "sacho", "esqui", "sofa", "sosa", "sierra",
	"fideo", "foto", "fauna", "foca", "fama", "ficha", "foco", "feria", "foso", "faro",
	"bota", "bate", "bano", "boca", "bomba", "bache", "buque", "bufon", "beso", "barro",
	"rueda", "reto", "rana", "roca", "rama", "racha", "roque", "rifa", "rosa", "rizo",
}

// DefaultSlots returns the default casillero mental, one slot per number
// 1..100, ready to be provisioned into an empty store.
func DefaultSlots() []domain.MentalSlot {
	slots := make([]domain.MentalSlot, len(defaultSlotLabels))
	for i, label := range defaultSlotLabels {
		slots[i] = domain.MentalSlot{Index: i + 1, Label: label}
	}
	return slots
}

// Shuffle returns a Fisher-Yates shuffled copy of the pool; the input is
// never mutated.
func Shuffle(r *rand.Rand, pool []string) []string {
	out := make([]string, len(pool))
	copy(out, pool)
	r.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// SampleWithoutReplacement draws up to n distinct elements from the pool,
// shuffling first so every subset is equally likely.
func SampleWithoutReplacement(r *rand.Rand, pool []string, n int) []string {
	shuffled := Shuffle(r, pool)
	if n > len(shuffled) {
		n = len(shuffled)
	}
	return shuffled[:n]
}
